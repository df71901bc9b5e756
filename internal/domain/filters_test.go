package domain

import (
	"testing"
	"time"
)

func TestRecordFiltersResolve(t *testing.T) {
	year := 2024
	month := 2

	f := &RecordFilters{Year: &year, Month: &month}
	start, end := f.Resolve()
	if start == nil || end == nil {
		t.Fatal("Expected a resolved range")
	}
	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start 2024-02-01, got %v", start)
	}
	if !end.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected end 2024-02-29 (leap year), got %v", end)
	}

	f = &RecordFilters{Year: &year}
	start, end = f.Resolve()
	if !start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected the whole year, got %v to %v", start, end)
	}

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	f = &RecordFilters{StartDate: &from, EndDate: &to}
	start, end = f.Resolve()
	if !start.Equal(from) || !end.Equal(to) {
		t.Error("Expected an explicit range to pass through untouched")
	}

	var none *RecordFilters
	start, end = none.Resolve()
	if start != nil || end != nil {
		t.Error("Expected nil filters to resolve to an open range")
	}
}

func TestRecordFiltersValidate(t *testing.T) {
	year := 2025
	month := 4
	badMonth := 13
	from := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filters *RecordFilters
		wantErr bool
	}{
		{"nil filters", nil, false},
		{"year and month", &RecordFilters{Year: &year, Month: &month}, false},
		{"range and month selector together", &RecordFilters{StartDate: &from, Year: &year}, true},
		{"end before start", &RecordFilters{StartDate: &from, EndDate: &to}, true},
		{"month out of range", &RecordFilters{Year: &year, Month: &badMonth}, true},
		{"month without year", &RecordFilters{Month: &month}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.wantErr && err != ErrInvalidDate {
				t.Errorf("Expected ErrInvalidDate, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
