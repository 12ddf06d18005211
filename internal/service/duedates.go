package service

import (
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

// All schedule arithmetic happens in UTC on the calendar, never on
// durations, so daylight-saving shifts cannot move a due date.

// upcomingDueDates expands a plan into its next run of due dates starting
// from now. Dates before the plan's start or after its end are skipped, and
// the slice holds at most `horizon` dates.
func upcomingDueDates(plan *domain.RecurringPlan, now time.Time, horizon int) []time.Time {
	now = now.UTC()
	start := plan.StartDate.UTC()
	dates := make([]time.Time, 0, horizon)

	switch plan.Frequency {
	case "monthly":
		base := alignToDay(start, monthlyDay(plan, start))
		// Re-anchor a plan that started in the past so the first emitted
		// date is current, not historical.
		if dateAfter(now, base) {
			base = alignToDay(now, monthlyDay(plan, now))
		}
		day := monthlyDay(plan, base)
		for i := 0; i < horizon; i++ {
			due := addMonthsClamped(base, i, day)
			if plan.EndDate != nil && due.After(plan.EndDate.UTC()) {
				break
			}
			if due.Before(start) {
				continue
			}
			dates = append(dates, due)
		}

	case "weekly", "biweekly":
		step := 7
		if plan.Frequency == "biweekly" {
			step = 14
		}
		current := start
		// Catch up to the present without overshooting it.
		for current.AddDate(0, 0, step).Before(now) || current.AddDate(0, 0, step).Equal(now) {
			current = current.AddDate(0, 0, step)
		}
		for i := 0; i < horizon; i++ {
			if plan.EndDate != nil && current.After(plan.EndDate.UTC()) {
				break
			}
			if !current.Before(start) {
				dates = append(dates, current)
			}
			current = current.AddDate(0, 0, step)
		}

	default:
		// Unknown frequency: coarse 30-day steps from whichever is later,
		// the present or the plan start.
		current := start
		if now.After(current) {
			current = now
		}
		for i := 0; i < horizon; i++ {
			if plan.EndDate != nil && current.After(plan.EndDate.UTC()) {
				break
			}
			dates = append(dates, current)
			current = current.AddDate(0, 0, 30)
		}
	}

	return dates
}

// monthlyDay is the day-of-month anchor for a monthly plan: the configured
// day, or the reference date's own day when none is set.
func monthlyDay(plan *domain.RecurringPlan, ref time.Time) int {
	if plan.DayOfMonth != nil {
		return *plan.DayOfMonth
	}
	return ref.Day()
}

// alignToDay pins t to the given day of its month, clamped to the month's
// length, at midnight UTC.
func alignToDay(t time.Time, day int) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, clampDay(y, m, day), 0, 0, 0, 0, time.UTC)
}

// addMonthsClamped adds months to base and re-clamps the wanted day against
// the target month. Adding always starts from base, so a day-31 schedule
// yields Jan 31, Feb 28, Mar 31 rather than drifting after the short month.
func addMonthsClamped(base time.Time, months, day int) time.Time {
	y, m, _ := base.Date()
	total := int(m) - 1 + months
	ty := y + total/12
	tm := time.Month(total%12 + 1)
	return time.Date(ty, tm, clampDay(ty, tm, day), 0, 0, 0, 0, time.UTC)
}

// clampDay bounds day to [1, length of the month].
func clampDay(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	last := daysInMonth(year, month)
	if day > last {
		return last
	}
	return day
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dateAfter reports whether a's calendar date is strictly after b's,
// ignoring time of day.
func dateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
