package service

import (
	"testing"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpcomingDueDates_MonthlyClampsShortMonths(t *testing.T) {
	day := 31
	plan := &domain.RecurringPlan{
		Frequency:  "monthly",
		DayOfMonth: &day,
		StartDate:  date(2025, time.January, 31),
		IsActive:   true,
	}
	// Clock before the start date, so no re-anchoring happens.
	now := date(2025, time.January, 1)

	got := upcomingDueDates(plan, now, 4)
	want := []time.Time{
		date(2025, time.January, 31),
		date(2025, time.February, 28),
		date(2025, time.March, 31),
		date(2025, time.April, 30),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date[%d]: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestUpcomingDueDates_MonthlyLeapFebruary(t *testing.T) {
	day := 30
	plan := &domain.RecurringPlan{
		Frequency:  "monthly",
		DayOfMonth: &day,
		StartDate:  date(2024, time.January, 30),
		IsActive:   true,
	}
	got := upcomingDueDates(plan, date(2024, time.January, 1), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(got))
	}
	if !got[1].Equal(date(2024, time.February, 29)) {
		t.Errorf("expected leap-year Feb 29, got %v", got[1])
	}
}

func TestUpcomingDueDates_MonthlyReanchorsPastPlans(t *testing.T) {
	day := 15
	plan := &domain.RecurringPlan{
		Frequency:  "monthly",
		DayOfMonth: &day,
		StartDate:  date(2020, time.March, 15),
		IsActive:   true,
	}
	got := upcomingDueDates(plan, date(2025, time.June, 1), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(got))
	}
	// First date re-anchored to the current month, not 2020.
	if !got[0].Equal(date(2025, time.June, 15)) {
		t.Errorf("expected 2025-06-15, got %v", got[0])
	}
}

func TestUpcomingDueDates_MonthlyDefaultsToStartDay(t *testing.T) {
	plan := &domain.RecurringPlan{
		Frequency: "monthly",
		StartDate: date(2025, time.January, 15),
		IsActive:  true,
	}
	got := upcomingDueDates(plan, date(2025, time.January, 1), 3)
	want := []time.Time{
		date(2025, time.January, 15),
		date(2025, time.February, 15),
		date(2025, time.March, 15),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date[%d]: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestUpcomingDueDates_MonthlyDefaultDayReanchorsToToday(t *testing.T) {
	plan := &domain.RecurringPlan{
		Frequency: "monthly",
		StartDate: date(2024, time.March, 10),
		IsActive:  true,
	}
	// Without a configured day the re-anchor adopts today's day.
	got := upcomingDueDates(plan, date(2025, time.June, 20), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %d: %v", len(got), got)
	}
	if !got[0].Equal(date(2025, time.June, 20)) {
		t.Errorf("expected 2025-06-20, got %v", got[0])
	}
	if !got[1].Equal(date(2025, time.July, 20)) {
		t.Errorf("expected 2025-07-20, got %v", got[1])
	}
}

func TestUpcomingDueDates_MonthlyRespectsEndDate(t *testing.T) {
	day := 1
	end := date(2025, time.March, 1)
	plan := &domain.RecurringPlan{
		Frequency:  "monthly",
		DayOfMonth: &day,
		StartDate:  date(2025, time.January, 1),
		EndDate:    &end,
		IsActive:   true,
	}
	got := upcomingDueDates(plan, date(2025, time.January, 1), 24)
	if len(got) != 3 {
		t.Fatalf("expected 3 dates (Jan, Feb, Mar), got %d: %v", len(got), got)
	}
}

func TestUpcomingDueDates_WeeklyCatchesUpWithoutOvershooting(t *testing.T) {
	plan := &domain.RecurringPlan{
		Frequency: "weekly",
		StartDate: date(2025, time.January, 6), // a Monday
		IsActive:  true,
	}
	now := date(2025, time.February, 3)

	got := upcomingDueDates(plan, now, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(got))
	}
	// Catch-up lands exactly on now when the cadence hits it.
	if !got[0].Equal(date(2025, time.February, 3)) {
		t.Errorf("expected first date 2025-02-03, got %v", got[0])
	}
	if !got[1].Equal(date(2025, time.February, 10)) {
		t.Errorf("expected second date 2025-02-10, got %v", got[1])
	}
}

func TestUpcomingDueDates_BiweeklyStepsFourteenDays(t *testing.T) {
	plan := &domain.RecurringPlan{
		Frequency: "biweekly",
		StartDate: date(2025, time.May, 1),
		IsActive:  true,
	}
	got := upcomingDueDates(plan, date(2025, time.April, 1), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(got))
	}
	if diff := got[1].Sub(got[0]); diff != 14*24*time.Hour {
		t.Errorf("expected 14-day step, got %v", diff)
	}
}

func TestUpcomingDueDates_UnknownFrequencyFallsBackToThirtyDays(t *testing.T) {
	plan := &domain.RecurringPlan{
		Frequency: "quarterly-ish",
		StartDate: date(2025, time.January, 1),
		IsActive:  true,
	}
	now := date(2025, time.June, 10)
	got := upcomingDueDates(plan, now, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(got))
	}
	// Starts at max(now, start).
	if !got[0].Equal(now) {
		t.Errorf("expected fallback to start at now, got %v", got[0])
	}
	if diff := got[1].Sub(got[0]); diff != 30*24*time.Hour {
		t.Errorf("expected 30-day step, got %v", diff)
	}
}

func TestAddMonthsClamped_AlwaysFromBase(t *testing.T) {
	base := date(2025, time.January, 31)
	// Stepping through February must not shorten later months.
	if got := addMonthsClamped(base, 1, 31); !got.Equal(date(2025, time.February, 28)) {
		t.Errorf("month 1: expected Feb 28, got %v", got)
	}
	if got := addMonthsClamped(base, 2, 31); !got.Equal(date(2025, time.March, 31)) {
		t.Errorf("month 2: expected Mar 31, got %v", got)
	}
	if got := addMonthsClamped(base, 13, 31); !got.Equal(date(2026, time.February, 28)) {
		t.Errorf("month 13: expected Feb 28 next year, got %v", got)
	}
}

func TestBucketStart_WeekStartsMonday(t *testing.T) {
	// 2025-06-11 is a Wednesday.
	got := bucketStart(date(2025, time.June, 11), domain.ModeWeek)
	if !got.Equal(date(2025, time.June, 9)) {
		t.Errorf("expected Monday 2025-06-09, got %v", got)
	}
	// A Sunday belongs to the week that began the previous Monday.
	got = bucketStart(date(2025, time.June, 15), domain.ModeWeek)
	if !got.Equal(date(2025, time.June, 9)) {
		t.Errorf("expected Monday 2025-06-09 for Sunday, got %v", got)
	}
}
