// Package dayofweek provides a static source that treats a fixed set of
// weekdays as working days.
package dayofweek

import (
	"time"

	"github.com/username/working-day-service/pkg/workingday"
)

// MondayToFriday is the default working week
var MondayToFriday = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// Source reports a date as a working day when its weekday is in the set
type Source struct {
	days [7]bool
}

// New creates a Source for the given weekdays. An empty set has no working days.
func New(days ...time.Weekday) *Source {
	s := &Source{}
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s.days[d] = true
		}
	}
	return s
}

// NewMondayToFriday creates a Source with the default working week
func NewMondayToFriday() *Source {
	return New(MondayToFriday...)
}

// IsWorkingDay checks if the weekday of date is in the set
func (s *Source) IsWorkingDay(date time.Time) bool {
	return s.days[date.Weekday()]
}

// Days returns the configured weekdays, Sunday first
func (s *Source) Days() []time.Weekday {
	var out []time.Weekday
	for d, ok := range s.days {
		if ok {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}

// Use makes a Source for days the only source of b
func Use(b *workingday.Builder, days ...time.Weekday) *Source {
	src := New(days...)
	b.UseSource(src)
	return src
}

// Add adds a Source for days to b
func Add(b *workingday.Builder, days ...time.Weekday) *Source {
	src := New(days...)
	b.AddSource(src)
	return src
}

// UseMondayToFriday makes a Monday to Friday Source the only source of b
func UseMondayToFriday(b *workingday.Builder) *Source {
	return Use(b, MondayToFriday...)
}

// AddMondayToFriday adds a Monday to Friday Source to b
func AddMondayToFriday(b *workingday.Builder) *Source {
	return Add(b, MondayToFriday...)
}
