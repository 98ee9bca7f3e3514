// Package holidaycal provides a source that treats observed public holidays,
// computed from rules, as non-working days.
package holidaycal

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/username/working-day-service/pkg/workingday"
)

// USFederal is the set of US federal holidays
var USFederal = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ColumbusDay,
	us.VeteransDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// Source is working on every date that is not an observed holiday.
// Weekends are not considered; combine with a day-of-week source for that.
type Source struct {
	calendar *cal.BusinessCalendar
}

// New creates a Source observing holidays
func New(holidays ...*cal.Holiday) *Source {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(holidays...)
	return &Source{calendar: c}
}

// NewUSFederal creates a Source observing US federal holidays
func NewUSFederal() *Source {
	return New(USFederal...)
}

// FromCalendar wraps an existing calendar. The calendar must not be modified afterwards.
func FromCalendar(c *cal.BusinessCalendar) *Source {
	return &Source{calendar: c}
}

// IsWorkingDay implements workingday.Source
func (s *Source) IsWorkingDay(date time.Time) bool {
	_, observed, _ := s.calendar.IsHoliday(date)
	return !observed
}

// Holiday returns the name of the holiday observed on date
func (s *Source) Holiday(date time.Time) (string, bool) {
	_, observed, h := s.calendar.IsHoliday(date)
	if !observed || h == nil {
		return "", false
	}
	return h.Name, true
}

// Use creates a Source and makes it the only source of b
func Use(b *workingday.Builder, holidays ...*cal.Holiday) *Source {
	src := New(holidays...)
	b.UseSource(src)
	return src
}

// Add creates a Source and adds it to b
func Add(b *workingday.Builder, holidays ...*cal.Holiday) *Source {
	src := New(holidays...)
	b.AddSource(src)
	return src
}
