// Package format contains parse and check functions for the document formats
// understood by the string, file and HTTP sources.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/working-day-service/pkg/dateutil"
)

// DateSet is a set of calendar dates keyed by YYYY-MM-DD
type DateSet map[string]struct{}

// Contains reports whether the date component of date is in the set
func (s DateSet) Contains(date time.Time) bool {
	_, ok := s[dateutil.DateKey(date)]
	return ok
}

// ParseDateList parses dates separated by commas, semicolons or line breaks.
// Text after '#' on a line is a comment.
func ParseDateList(content string) (DateSet, error) {
	set := make(DateSet)

	for lineNo, line := range strings.Split(content, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '\r'
		})
		for _, field := range fields {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			date, err := dateutil.ParseDate(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			set[dateutil.DateKey(date)] = struct{}{}
		}
	}

	return set, nil
}

// Listed treats the dates in the set as working days
func Listed(date time.Time, set DateSet) bool {
	return set.Contains(date)
}

// NotListed treats the dates in the set as non-working days
func NotListed(date time.Time, set DateSet) bool {
	return !set.Contains(date)
}
