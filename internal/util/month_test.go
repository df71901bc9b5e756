package util

import (
	"testing"
	"time"
)

func TestMonthBoundaries(t *testing.T) {
	start, end := MonthBoundaries(2024, 2)
	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start 2024-02-01, got %v", start)
	}
	if !end.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected end 2024-02-29 (leap year), got %v", end)
	}

	_, end = MonthBoundaries(2023, 2)
	if end.Day() != 28 {
		t.Errorf("Expected Feb 2023 to end on 28, got %d", end.Day())
	}
}

func TestClampDay(t *testing.T) {
	tests := []struct {
		year    int
		month   time.Month
		day     int
		wantDay int
	}{
		{2024, time.February, 31, 29}, // leap year
		{2023, time.February, 31, 28},
		{2024, time.April, 31, 30},
		{2024, time.March, 15, 15}, // no clamping needed
	}

	for _, tt := range tests {
		got := ClampDay(tt.year, tt.month, tt.day)
		if got.Day() != tt.wantDay || got.Month() != tt.month || got.Year() != tt.year {
			t.Errorf("ClampDay(%d, %v, %d) = %v, want day %d", tt.year, tt.month, tt.day, got, tt.wantDay)
		}
	}
}
