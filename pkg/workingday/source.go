// Package workingday answers whether a civil date is a working day by
// composing independent sources, and derives working day arithmetic from
// the composite answer.
package workingday

import "time"

// Source reports whether a date is a working day.
// Only the calendar date component of the argument is meaningful.
type Source interface {
	IsWorkingDay(date time.Time) bool
}

// SourceFunc adapts an ordinary function to a Source
type SourceFunc func(date time.Time) bool

// IsWorkingDay calls f(date)
func (f SourceFunc) IsWorkingDay(date time.Time) bool {
	return f(date)
}

// IsNonWorkingDay is the negation of src.IsWorkingDay
func IsNonWorkingDay(src Source, date time.Time) bool {
	return !src.IsWorkingDay(date)
}
