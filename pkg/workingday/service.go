package workingday

import (
	"time"

	"github.com/username/working-day-service/pkg/dateutil"
)

// Service is the aggregate of a fixed set of sources.
// A date is a working day when at least one source says so; with no
// sources every date is a working day.
type Service struct {
	sources []Source
}

// NewService creates a Service over a private copy of sources
func NewService(sources ...Source) *Service {
	snapshot := make([]Source, len(sources))
	copy(snapshot, sources)
	return &Service{sources: snapshot}
}

// IsWorkingDay checks if the given date is a working day
func (s *Service) IsWorkingDay(date time.Time) bool {
	if len(s.sources) == 0 {
		return true
	}
	for _, src := range s.sources {
		if src.IsWorkingDay(date) {
			return true
		}
	}
	return false
}

// IsNonWorkingDay checks if the given date is not a working day
func (s *Service) IsNonWorkingDay(date time.Time) bool {
	return !s.IsWorkingDay(date)
}

// Len returns the number of sources in the snapshot
func (s *Service) Len() int {
	return len(s.sources)
}

// Sources returns a copy of the snapshot
func (s *Service) Sources() []Source {
	out := make([]Source, len(s.sources))
	copy(out, s.sources)
	return out
}

// NextWorkingDay returns the first working day after date
func (s *Service) NextWorkingDay(date time.Time) time.Time {
	return NextWorkingDay(s, date)
}

// PreviousWorkingDay returns the last working day before date
func (s *Service) PreviousWorkingDay(date time.Time) time.Time {
	return PreviousWorkingDay(s, date)
}

// AddWorkingDays moves date forward by n working days
func (s *Service) AddWorkingDays(n int, date time.Time) time.Time {
	return AddWorkingDays(s, n, date)
}

// SubtractWorkingDays moves date backward by n working days
func (s *Service) SubtractWorkingDays(n int, date time.Time) time.Time {
	return SubtractWorkingDays(s, n, date)
}

// NextWorkingDay steps forward one calendar day at a time until src reports
// a working day. The time of day of date is preserved.
// It does not return if src never reports a working day again.
func NextWorkingDay(src Source, date time.Time) time.Time {
	return step(src, date, 1)
}

// PreviousWorkingDay is NextWorkingDay stepping backward
func PreviousWorkingDay(src Source, date time.Time) time.Time {
	return step(src, date, -1)
}

// AddWorkingDays applies NextWorkingDay n times. n == 0 returns date unchanged,
// a negative n subtracts.
func AddWorkingDays(src Source, n int, date time.Time) time.Time {
	if n < 0 {
		return SubtractWorkingDays(src, -n, date)
	}
	for i := 0; i < n; i++ {
		date = NextWorkingDay(src, date)
	}
	return date
}

// SubtractWorkingDays applies PreviousWorkingDay n times. n == 0 returns date
// unchanged, a negative n adds.
func SubtractWorkingDays(src Source, n int, date time.Time) time.Time {
	if n < 0 {
		return AddWorkingDays(src, -n, date)
	}
	for i := 0; i < n; i++ {
		date = PreviousWorkingDay(src, date)
	}
	return date
}

func step(src Source, date time.Time, direction int) time.Time {
	for {
		date = dateutil.AddDays(date, direction)
		if src.IsWorkingDay(date) {
			return date
		}
	}
}
