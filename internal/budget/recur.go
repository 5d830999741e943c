// Package budget implements the recurrence expansion and monthly
// aggregation behind the calendar and budget summary queries. Everything
// in this package is a pure function of the owner's stored items and the
// requested month: no state is retained between queries, so repeated
// queries over unchanged items return identical results.
package budget

import (
	"nassets/internal/core"
)

// Window is an inclusive calendar-date range.
type Window struct {
	Start core.Date
	End   core.Date
}

// MonthWindow builds the window covering every day of the given month.
// Returns core.ErrInvalidWindow for a month outside 1-12 or a non-positive
// year.
func MonthWindow(year, month int) (Window, error) {
	if year < 1 || month < 1 || month > 12 {
		return Window{}, core.ErrInvalidWindow
	}
	return Window{
		Start: core.NewDate(year, month, 1),
		End:   core.NewDate(year, month, core.DaysInMonth(year, month)),
	}, nil
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d core.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Schedule is the recurrence configuration of a financial item: the
// anchor date it is first effective, its cadence, and an optional end
// date. A nil Until means the recurrence is unbounded and is capped only
// by the query window.
type Schedule struct {
	Anchor core.Date
	Every  core.RecurrenceType
	Until  *core.Date
}

// DatesWithin expands the schedule into every occurrence date inside w,
// in ascending order.
//
// Candidates are always derived from the anchor, never from the previous
// occurrence, so monthly clamping does not stick: an anchor on Jan 31
// emits Feb 28 (or 29) and then Mar 31. Yearly Feb 29 anchors fall back
// to Feb 28 outside leap years.
func (s Schedule) DatesWithin(w Window) ([]core.Date, error) {
	if w.Start.After(w.End) {
		return nil, core.ErrInvalidWindow
	}
	if !s.Every.Valid() {
		return nil, core.ErrInvalidRecurrenceType
	}
	if s.Until != nil && s.Until.Before(s.Anchor) {
		return nil, core.ErrInvalidRecurrenceConfig
	}

	if s.Every == core.RecurrenceNone {
		if w.Contains(s.Anchor) {
			return []core.Date{s.Anchor}, nil
		}
		return nil, nil
	}

	end := w.End
	if s.Until != nil && s.Until.Before(end) {
		end = *s.Until
	}
	if s.Anchor.After(end) {
		return nil, nil
	}

	// Find the first step count n whose occurrence is >= w.Start, then
	// walk forward one step at a time until past the effective end.
	n := s.firstStepAtOrAfter(w.Start)
	var dates []core.Date
	for {
		d := s.nth(n)
		if d.After(end) {
			return dates, nil
		}
		dates = append(dates, d)
		n++
	}
}

// nth returns the date of the n-th occurrence (n=0 is the anchor).
func (s Schedule) nth(n int) core.Date {
	switch s.Every {
	case core.RecurrenceDaily:
		return s.Anchor.AddDays(n)
	case core.RecurrenceWeekly:
		return s.Anchor.AddDays(7 * n)
	case core.RecurrenceMonthly:
		return clampedMonthDay(s.Anchor.Year(), s.Anchor.Month()+n, s.Anchor.Day())
	case core.RecurrenceYearly:
		return clampedMonthDay(s.Anchor.Year()+n, s.Anchor.Month(), s.Anchor.Day())
	}
	return s.Anchor
}

// firstStepAtOrAfter returns the smallest n >= 0 with nth(n) >= from.
func (s Schedule) firstStepAtOrAfter(from core.Date) int {
	if !s.Anchor.Before(from) {
		return 0
	}
	var n int
	switch s.Every {
	case core.RecurrenceDaily:
		n = from.DaysSince(s.Anchor)
	case core.RecurrenceWeekly:
		n = (from.DaysSince(s.Anchor) + 6) / 7
	case core.RecurrenceMonthly:
		n = (from.Year()-s.Anchor.Year())*12 + from.Month() - s.Anchor.Month()
	case core.RecurrenceYearly:
		n = from.Year() - s.Anchor.Year()
	}
	if n < 0 {
		n = 0
	}
	// Day-of-month clamping can leave nth(n) just before from.
	if s.nth(n).Before(from) {
		n++
	}
	return n
}

// clampedMonthDay builds a date from a (possibly overflowing) month
// number, clamping the day to the last valid day of that month.
func clampedMonthDay(year, month, day int) core.Date {
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	if month < 1 {
		// Negative month overflow never happens for forward stepping,
		// but keep the arithmetic total.
		month += 12
		year--
	}
	if last := core.DaysInMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, month, day)
}
