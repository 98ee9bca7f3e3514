package workingday

import "time"

type weekdaySource struct {
	day time.Weekday
}

func (s *weekdaySource) IsWorkingDay(date time.Time) bool {
	return date.Weekday() == s.day
}

func mondaySource() *weekdaySource  { return &weekdaySource{day: time.Monday} }
func tuesdaySource() *weekdaySource { return &weekdaySource{day: time.Tuesday} }

type constSource bool

func (c constSource) IsWorkingDay(time.Time) bool { return bool(c) }
