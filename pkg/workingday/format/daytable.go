package format

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/working-day-service/pkg/dateutil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

// String returns the day type as written in a day table
func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	}
	return "unknown"
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date         time.Time
	Type         DayType
	WorkingHours int
	IsWorkday    bool
	Note         string
}

// DayTable maps YYYY-MM-DD to the day listed for it
type DayTable map[string]DayInfo

// Lookup returns the entry for the date component of date
func (t DayTable) Lookup(date time.Time) (DayInfo, bool) {
	info, ok := t[dateutil.DateKey(date)]
	return info, ok
}

// ParseDayTable parses one day per line.
// Format: YYYY-MM-DD type [working_hours] [note]
// Example: 2025-01-01 holiday 0 New Year
// Blank lines and lines starting with '#' are skipped.
func ParseDayTable(content string) (DayTable, error) {
	table := make(DayTable)

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected date and type, got %q", lineNo, line)
		}

		date, err := time.Parse(dateutil.DateLayout, parts[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to parse date: %w", lineNo, err)
		}

		var dayType DayType
		isWorkday := false
		hours := 0
		switch parts[1] {
		case "workday":
			dayType = DayTypeWorkday
			isWorkday = true
			hours = 8
		case "shortened":
			dayType = DayTypeShortened
			isWorkday = true
			hours = 7
		case "weekend":
			dayType = DayTypeWeekend
		case "holiday":
			dayType = DayTypeHoliday
		default:
			return nil, fmt.Errorf("line %d: unknown day type %q", lineNo, parts[1])
		}

		rest := parts[2:]
		if len(rest) > 0 {
			if h, err := strconv.Atoi(rest[0]); err == nil {
				hours = h
				rest = rest[1:]
			}
		}

		table[dateutil.DateKey(date)] = DayInfo{
			Date:         date,
			Type:         dayType,
			WorkingHours: hours,
			IsWorkday:    isWorkday,
			Note:         strings.Join(rest, " "),
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading day table: %w", err)
	}

	return table, nil
}

// ListedAsWorkday is true only for dates the table lists as workday or shortened
func ListedAsWorkday(date time.Time, table DayTable) bool {
	info, ok := table.Lookup(date)
	return ok && info.IsWorkday
}

// NotListedAsOff is true unless the table lists the date as weekend or holiday
func NotListedAsOff(date time.Time, table DayTable) bool {
	info, ok := table.Lookup(date)
	return !ok || info.IsWorkday
}
