package domain

import (
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/util"
)

// RecordFilters narrows the record set an operation runs over. A date range
// and a year/month selector are mutually exclusive; archived records are
// excluded unless IncludeArchived is set.
type RecordFilters struct {
	StartDate       *time.Time
	EndDate         *time.Time
	Year            *int
	Month           *int
	Fund            *FundType
	IncludeArchived bool
}

// Validate checks filter consistency before the record set is fetched.
func (f *RecordFilters) Validate() error {
	if f == nil {
		return nil
	}
	hasRange := f.StartDate != nil || f.EndDate != nil
	hasMonth := f.Year != nil || f.Month != nil
	if hasRange && hasMonth {
		return ErrInvalidDate
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return ErrInvalidDate
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		return ErrInvalidDate
	}
	if f.Month != nil && f.Year == nil {
		return ErrInvalidDate
	}
	return nil
}

// Resolve returns the effective date range, expanding a year/month selector
// into calendar boundaries. A year without a month covers the whole year.
func (f *RecordFilters) Resolve() (start, end *time.Time) {
	if f == nil {
		return nil, nil
	}
	if f.Year != nil {
		var s, e time.Time
		if f.Month != nil {
			s, e = util.MonthBoundaries(*f.Year, *f.Month)
		} else {
			s = time.Date(*f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
			e = time.Date(*f.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
		}
		return &s, &e
	}
	return f.StartDate, f.EndDate
}
