package format

import (
	"strings"
	"testing"
	"time"
)

func TestParseIsDayOff_Month(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		data      string
		wantDays  int
		wantWork  int
		wantHours int
	}{
		{
			name:      "November 2025",
			year:      2025,
			month:     time.November,
			data:      "211100011000001100000110000011", // 30 days
			wantDays:  30,
			wantWork:  19,  // 18 working + 1 shortened
			wantHours: 151, // 18*8 + 1*7
		},
		{
			name:      "July 2025",
			year:      2025,
			month:     time.July,
			data:      "0000110000011000001100000110000", // 31 days
			wantDays:  31,
			wantWork:  23,
			wantHours: 184,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseIsDayOff(tt.year, tt.month)(tt.data)
			if err != nil {
				t.Fatalf("ParseIsDayOff() error = %v", err)
			}

			if len(table) != tt.wantDays {
				t.Errorf("Days count = %d, want %d", len(table), tt.wantDays)
			}

			work, hours := 0, 0
			for _, info := range table {
				if info.IsWorkday {
					work++
				}
				hours += info.WorkingHours
			}
			if work != tt.wantWork {
				t.Errorf("WorkDays = %d, want %d", work, tt.wantWork)
			}
			if hours != tt.wantHours {
				t.Errorf("WorkingHours = %d, want %d", hours, tt.wantHours)
			}
		})
	}
}

func TestParseIsDayOff_DayTypes(t *testing.T) {
	table, err := ParseIsDayOff(2025, time.November)("211100011000001100000110000011\n")
	if err != nil {
		t.Fatalf("ParseIsDayOff() error = %v", err)
	}

	tests := []struct {
		day  int
		want DayType
	}{
		{1, DayTypeShortened},
		{2, DayTypeWeekend},  // Sunday
		{3, DayTypeHoliday},  // Monday off
		{4, DayTypeHoliday},  // Unity day
		{5, DayTypeWorkday},
	}
	for _, tt := range tests {
		info, ok := table.Lookup(time.Date(2025, time.November, tt.day, 10, 0, 0, 0, time.UTC))
		if !ok {
			t.Fatalf("Nov %d missing", tt.day)
		}
		if info.Type != tt.want {
			t.Errorf("Nov %d Type = %v, want %v", tt.day, info.Type, tt.want)
		}
	}
}

func TestParseIsDayOff_Year(t *testing.T) {
	leap := strings.Repeat("0", 366)
	table, err := ParseIsDayOff(2024, 0)(leap)
	if err != nil {
		t.Fatalf("ParseIsDayOff() error = %v", err)
	}
	if !ListedAsWorkday(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), table) {
		t.Error("expected Feb 29 2024 to be listed as workday")
	}
	if ListedAsWorkday(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), table) {
		t.Error("dates outside the year must not be listed")
	}
}

func TestParseIsDayOff_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"short", "0000"},
		{"long", strings.Repeat("0", 31)},
		{"bad code", strings.Repeat("0", 29) + "9"},
		{"error response", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseIsDayOff(2025, time.November)(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseIsDayOffYears(t *testing.T) {
	content := "2025 " + strings.Repeat("1", 365) + "\n2026 " + strings.Repeat("0", 365) + "\n"

	table, err := ParseIsDayOffYears(content)
	if err != nil {
		t.Fatalf("ParseIsDayOffYears() error = %v", err)
	}
	if len(table) != 730 {
		t.Errorf("Days count = %d, want 730", len(table))
	}
	if ListedAsWorkday(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), table) {
		t.Error("Dec 31 2025 must be off")
	}
	if !ListedAsWorkday(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), table) {
		t.Error("Jan 1 2026 must be working")
	}
}

func TestParseIsDayOffYears_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"missing codes", "2025\n"},
		{"bad year", "twenty " + strings.Repeat("0", 365)},
		{"wrong length", "2024 " + strings.Repeat("0", 365)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseIsDayOffYears(tt.content); err == nil {
				t.Error("expected error")
			}
		})
	}
}
