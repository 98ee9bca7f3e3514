package workingday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func monTueService() *Service {
	return NewService(mondaySource(), tuesdaySource())
}

func TestNextWorkingDay(t *testing.T) {
	svc := monTueService()

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{"Monday to Tuesday", time.Date(2018, 5, 14, 9, 30, 0, 0, time.UTC), time.Date(2018, 5, 15, 9, 30, 0, 0, time.UTC)},
		{"Tuesday to next Monday", time.Date(2018, 5, 15, 10, 30, 55, 0, time.UTC), time.Date(2018, 5, 21, 10, 30, 55, 0, time.UTC)},
		{"Saturday to Monday", time.Date(2018, 5, 19, 0, 0, 0, 0, time.UTC), time.Date(2018, 5, 21, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.NextWorkingDay(tt.input))
		})
	}
}

func TestPreviousWorkingDay(t *testing.T) {
	svc := monTueService()

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{"Monday to previous Tuesday", time.Date(2018, 5, 14, 9, 30, 0, 0, time.UTC), time.Date(2018, 5, 8, 9, 30, 0, 0, time.UTC)},
		{"Tuesday to Monday", time.Date(2018, 5, 15, 10, 30, 55, 0, time.UTC), time.Date(2018, 5, 14, 10, 30, 55, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.PreviousWorkingDay(tt.input))
		})
	}
}

func TestAddWorkingDays(t *testing.T) {
	svc := monTueService()
	monday := time.Date(2018, 5, 14, 9, 30, 0, 0, time.UTC)
	tuesday := time.Date(2018, 5, 15, 10, 30, 55, 0, time.UTC)

	tests := []struct {
		name  string
		n     int
		input time.Time
		want  time.Time
	}{
		{"0 from Monday", 0, monday, monday},
		{"0 from Tuesday", 0, tuesday, tuesday},
		{"1 from Monday", 1, monday, time.Date(2018, 5, 15, 9, 30, 0, 0, time.UTC)},
		{"1 from Tuesday", 1, tuesday, time.Date(2018, 5, 21, 10, 30, 55, 0, time.UTC)},
		{"2 from Monday", 2, monday, time.Date(2018, 5, 21, 9, 30, 0, 0, time.UTC)},
		{"2 from Tuesday", 2, tuesday, time.Date(2018, 5, 22, 10, 30, 55, 0, time.UTC)},
		{"-1 from Monday subtracts", -1, monday, time.Date(2018, 5, 8, 9, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.AddWorkingDays(tt.n, tt.input))
		})
	}
}

func TestSubtractWorkingDays(t *testing.T) {
	svc := monTueService()
	monday := time.Date(2018, 5, 14, 9, 30, 0, 0, time.UTC)
	tuesday := time.Date(2018, 5, 15, 10, 30, 55, 0, time.UTC)

	tests := []struct {
		name  string
		n     int
		input time.Time
		want  time.Time
	}{
		{"0 from Monday", 0, monday, monday},
		{"0 from Tuesday", 0, tuesday, tuesday},
		{"1 from Monday", 1, monday, time.Date(2018, 5, 8, 9, 30, 0, 0, time.UTC)},
		{"1 from Tuesday", 1, tuesday, time.Date(2018, 5, 14, 10, 30, 55, 0, time.UTC)},
		{"2 from Monday", 2, monday, time.Date(2018, 5, 7, 9, 30, 0, 0, time.UTC)},
		{"2 from Tuesday", 2, tuesday, time.Date(2018, 5, 8, 10, 30, 55, 0, time.UTC)},
		{"-2 from Monday adds", -2, monday, time.Date(2018, 5, 21, 9, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.SubtractWorkingDays(tt.n, tt.input))
		})
	}
}

func TestAddThenSubtractWithoutGaps(t *testing.T) {
	svc := NewService()
	start := time.Date(2020, 2, 27, 17, 45, 0, 0, time.UTC)

	forward := svc.AddWorkingDays(3, start)
	assert.Equal(t, time.Date(2020, 3, 1, 17, 45, 0, 0, time.UTC), forward)
	assert.Equal(t, start, svc.SubtractWorkingDays(3, forward))
}

func TestArithmeticKeepsLocation(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	start := time.Date(2018, 5, 15, 23, 30, 0, 0, msk)

	got := monTueService().NextWorkingDay(start)
	assert.Equal(t, time.Date(2018, 5, 21, 23, 30, 0, 0, msk), got)
	assert.Equal(t, msk, got.Location())
}
