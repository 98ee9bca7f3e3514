package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical civil date layout used for keys
const DateLayout = "2006-01-02"

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// DateKey returns the calendar date component as YYYY-MM-DD.
// The location of the value is kept as is, no timezone conversion happens.
func DateKey(date time.Time) string {
	return date.Format(DateLayout)
}

// AddDays moves the date component by n calendar days and keeps the time of day
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}

// ParseWeekday parses an English weekday name ("monday", "Mon")
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %q", s)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
