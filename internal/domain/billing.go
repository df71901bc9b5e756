package domain

import (
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/util"
)

// Cadence is how often a subscription bills.
type Cadence string

const (
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceAnnually  Cadence = "annually"
)

// ParseCadence validates a cadence token.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case CadenceMonthly, CadenceQuarterly, CadenceAnnually:
		return Cadence(s), nil
	}
	return "", ErrInvalidCadence
}

// Months returns the cycle length in months.
func (c Cadence) Months() int {
	switch c {
	case CadenceQuarterly:
		return 3
	case CadenceAnnually:
		return 12
	}
	return 1
}

// NextBillingDate returns the first billing date strictly after `after`,
// walking whole cycles from the original anchor date. Deriving from the
// anchor every cycle (never from the previous billing date) keeps a
// clamped day from drifting earlier across cycles: Jan 31 monthly always
// yields Feb 28/29, then Mar 31, and so on.
func NextBillingDate(anchor time.Time, cadence Cadence, after time.Time) time.Time {
	step := cadence.Months()

	// Start near the right cycle count instead of walking from 1.
	n := monthsBetween(anchor, after) / step
	if n < 1 {
		n = 1
	}
	for {
		candidate := addMonthsClamped(anchor, n*step)
		if candidate.After(after) {
			return candidate
		}
		n++
	}
}

// ReminderDue reports whether today falls in the inclusive reminder window
// [next - reminderDays, next].
func ReminderDue(today, next time.Time, reminderDays int32) bool {
	today = truncateDay(today)
	next = truncateDay(next)
	windowStart := next.AddDate(0, 0, -int(reminderDays))
	return !today.Before(windowStart) && !today.After(next)
}

// addMonthsClamped adds whole months preserving the anchor's day-of-month,
// clamping to the last day when the target month is shorter. time.AddDate
// would normalize Jan 31 + 1 month into Mar 2/3, which is exactly the
// rollover this avoids.
func addMonthsClamped(t time.Time, months int) time.Time {
	total := int(t.Month()) - 1 + months
	year := t.Year() + total/12
	month := time.Month(total%12 + 1)
	return util.ClampDay(year, month, t.Day())
}

func monthsBetween(from, to time.Time) int {
	m := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if m < 0 {
		return 0
	}
	return m
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
