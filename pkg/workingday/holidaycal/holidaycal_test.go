package holidaycal

import (
	"testing"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/stretchr/testify/assert"

	"github.com/username/working-day-service/pkg/workingday"
	"github.com/username/working-day-service/pkg/workingday/dayofweek"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestUSFederal_IsWorkingDay(t *testing.T) {
	src := NewUSFederal()

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"independence day", day(2024, time.July, 4), false},
		{"ordinary thursday", day(2024, time.July, 11), true},
		{"thanksgiving", day(2024, time.November, 28), false},
		{"observed friday for saturday holiday", day(2020, time.July, 3), false},
		{"saturday holiday itself", day(2020, time.July, 4), true},
		{"observed monday for sunday christmas", day(2022, time.December, 26), false},
		{"new year", day(2025, time.January, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := src.IsWorkingDay(tt.date); got != tt.want {
				t.Errorf("IsWorkingDay(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestHoliday(t *testing.T) {
	src := New(us.ChristmasDay)

	name, ok := src.Holiday(day(2024, time.December, 25))
	assert.True(t, ok)
	assert.Equal(t, us.ChristmasDay.Name, name)

	_, ok = src.Holiday(day(2024, time.December, 24))
	assert.False(t, ok)
}

func TestFromCalendar(t *testing.T) {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.LaborDay)
	src := FromCalendar(c)

	assert.False(t, src.IsWorkingDay(day(2024, time.September, 2)))
	assert.True(t, src.IsWorkingDay(day(2024, time.September, 3)))
}

func TestUseAndAdd(t *testing.T) {
	b := workingday.NewBuilder()
	Add(b, USFederal...)
	assert.Equal(t, 1, b.Len())

	// a holiday source alone makes weekends working
	assert.True(t, b.Build().IsWorkingDay(day(2024, time.July, 6)))

	dayofweek.Use(b, time.Monday)
	assert.Equal(t, 1, b.Len())
	assert.False(t, b.Build().IsWorkingDay(day(2024, time.July, 4)))
}
