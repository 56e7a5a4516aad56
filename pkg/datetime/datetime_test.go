package datetime

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"January", "2025-01", Month(2025, time.January), false},
		{"December", "2024-12", Month(2024, time.December), false},
		{"Day included", "2025-01-15", time.Time{}, true},
		{"Garbage", "enero", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseMonth(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMonth() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonth() error = %v", err)
			}
			if !result.Equal(tt.expected) {
				t.Errorf("ParseMonth() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2025, time.March, 17, 15, 4, 5, 0, time.UTC)
	if got := MonthStart(in); !got.Equal(Month(2025, time.March)) {
		t.Errorf("MonthStart() = %v", got)
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name  string
		month time.Time
		start time.Time
		end   time.Time
	}{
		{"January crosses year", Month(2025, time.January), Day(2024, time.December, 15), Day(2025, time.January, 13)},
		{"March after short February", Month(2024, time.March), Day(2024, time.February, 15), Day(2024, time.March, 13)},
		{"Mid-month input is truncated", Day(2025, time.June, 20), Day(2025, time.May, 15), Day(2025, time.June, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthWindow(tt.month, 15, 13)
			if !start.Equal(tt.start) || !end.Equal(tt.end) {
				t.Errorf("MonthWindow() = %v..%v, expected %v..%v", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	days := DaysBetween(Day(2024, time.February, 27), Day(2024, time.March, 2))
	if len(days) != 5 {
		t.Fatalf("DaysBetween() returned %d days, expected 5", len(days))
	}
	if !days[2].Equal(Day(2024, time.February, 29)) {
		t.Errorf("expected leap day at index 2, got %v", days[2])
	}
	if DaysBetween(Day(2024, time.March, 2), Day(2024, time.March, 1)) != nil {
		t.Errorf("expected nil for reversed range")
	}
}

func TestIsDecember(t *testing.T) {
	if !IsDecember(Month(2025, time.December)) {
		t.Errorf("expected December to be detected")
	}
	if IsDecember(Month(2025, time.November)) {
		t.Errorf("November is not December")
	}
}
