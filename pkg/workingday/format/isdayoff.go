package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/working-day-service/pkg/dateutil"
)

// ParseIsDayOff returns a parser for the isdayoff.ru bulk response covering
// month of year, or the whole year when month is zero.
//
// Format: one code per day, e.g. "211100011000001100000110000011" where
// 0 = working day (8 hours), 1 = non-working day, 2 = shortened day (7 hours).
func ParseIsDayOff(year int, month time.Month) func(content string) (DayTable, error) {
	return func(content string) (DayTable, error) {
		data := strings.TrimSpace(content)

		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		if month != 0 {
			start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			end = start.AddDate(0, 1, 0)
		}

		days := int(end.Sub(start).Hours() / 24)
		if len(data) != days {
			return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", days, len(data))
		}

		table := make(DayTable, days)
		for i, code := range data {
			date := start.AddDate(0, 0, i)

			info := DayInfo{Date: date}
			switch code {
			case '0':
				info.Type = DayTypeWorkday
				info.WorkingHours = 8
				info.IsWorkday = true
			case '1':
				if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
					info.Type = DayTypeWeekend
				} else {
					info.Type = DayTypeHoliday
				}
			case '2':
				info.Type = DayTypeShortened
				info.WorkingHours = 7
				info.IsWorkday = true
			default:
				return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
			}

			table[dateutil.DateKey(date)] = info
		}

		return table, nil
	}
}

// ParseIsDayOffYears parses several whole-year bulk responses, one per line,
// each prefixed by its year: "2025 0001100...".
func ParseIsDayOffYears(content string) (DayTable, error) {
	table := make(DayTable)

	for lineNo, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected year and codes", lineNo+1)
		}
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid year %q", lineNo+1, parts[0])
		}

		days, err := ParseIsDayOff(year, 0)(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		for key, info := range days {
			table[key] = info
		}
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("no calendar data")
	}

	return table, nil
}
