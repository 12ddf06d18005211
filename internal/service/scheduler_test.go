package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port/porttest"
	"github.com/ledgerplan/ledgerd/internal/service"

	"go.uber.org/zap"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyPlan(id, companyID string, dayOfMonth int) *domain.RecurringPlan {
	return &domain.RecurringPlan{
		ID:                id,
		CompanyID:         companyID,
		Name:              "Office rent",
		FlowType:          domain.FlowExpense,
		CategoryID:        "cat-1",
		AccountExpectedID: "acc-1",
		AmountEstimated:   2000,
		Frequency:         "monthly",
		DayOfMonth:        &dayOfMonth,
		StartDate:         day(2025, time.January, 1),
		IsActive:          true,
		Version:           1,
	}
}

func newScheduler(store *porttest.Store, now time.Time) *service.Scheduler {
	return service.NewScheduler(store, 24, observability.NewMetrics(), zap.NewNop(), fixedClock(now))
}

func TestSchedulerGenerate_MaterializesEntriesWithProvenance(t *testing.T) {
	store := porttest.NewStore()
	sched := newScheduler(store, day(2025, time.January, 1))
	plan := monthlyPlan("plan-1", "co-1", 5)

	if err := sched.Generate(context.Background(), plan); err != nil {
		t.Fatalf("generate: %v", err)
	}

	entries := store.PlanEntries("plan-1")
	if len(entries) != 24 {
		t.Fatalf("expected 24 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Name != "Office rent 2025-01-05" {
		t.Errorf("unexpected name %q", first.Name)
	}
	if first.Status != domain.StatusPlanned {
		t.Errorf("expected status planned, got %s", first.Status)
	}
	if first.RecurringPlanVersion == nil || *first.RecurringPlanVersion != 1 {
		t.Errorf("expected provenance version 1, got %v", first.RecurringPlanVersion)
	}
	if first.CompanyID != "co-1" {
		t.Errorf("expected entry to inherit company, got %q", first.CompanyID)
	}
}

func TestSchedulerGenerate_InactivePlanGeneratesNothing(t *testing.T) {
	store := porttest.NewStore()
	sched := newScheduler(store, day(2025, time.January, 1))
	plan := monthlyPlan("plan-1", "co-1", 5)
	plan.IsActive = false

	if err := sched.Generate(context.Background(), plan); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := len(store.PlanEntries("plan-1")); got != 0 {
		t.Fatalf("expected no entries for inactive plan, got %d", got)
	}
}

func TestSchedulerRegenerate_PreservesHistoryAndCoveredEntries(t *testing.T) {
	store := porttest.NewStore()
	now := day(2025, time.June, 1)
	sched := newScheduler(store, now)
	planID := "plan-1"

	// A covered future entry and a past open entry, both from this plan.
	covered := domain.PlannedEntry{
		ID: "e-covered", CompanyID: "co-1", RecurringPlanID: &planID,
		Name: "Office rent 2025-07-05", FlowType: domain.FlowExpense,
		CategoryID: "cat-1", AccountExpectedID: "acc-1", AmountEstimated: 2000,
		DueDate: day(2025, time.July, 5), Status: domain.StatusCovered,
	}
	pastOpen := domain.PlannedEntry{
		ID: "e-past", CompanyID: "co-1", RecurringPlanID: &planID,
		Name: "Office rent 2025-03-05", FlowType: domain.FlowExpense,
		CategoryID: "cat-1", AccountExpectedID: "acc-1", AmountEstimated: 2000,
		DueDate: day(2025, time.March, 5), Status: domain.StatusPlanned,
	}
	futureOpen := domain.PlannedEntry{
		ID: "e-open", CompanyID: "co-1", RecurringPlanID: &planID,
		Name: "Office rent 2025-08-05", FlowType: domain.FlowExpense,
		CategoryID: "cat-1", AccountExpectedID: "acc-1", AmountEstimated: 2000,
		DueDate: day(2025, time.August, 5), Status: domain.StatusPlanned,
	}
	store.Entries[covered.ID] = covered
	store.Entries[pastOpen.ID] = pastOpen
	store.Entries[futureOpen.ID] = futureOpen

	plan := monthlyPlan(planID, "co-1", 5)
	if err := sched.Regenerate(context.Background(), plan, "regenerate"); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	if _, ok := store.Entries["e-covered"]; !ok {
		t.Error("covered future entry must survive regeneration")
	}
	if _, ok := store.Entries["e-past"]; !ok {
		t.Error("past entry must survive regeneration")
	}
	if _, ok := store.Entries["e-open"]; ok {
		t.Error("open future entry must be replaced by regeneration")
	}
	// Fresh entries were generated.
	if got := len(store.PlanEntries(planID)); got != 24+2 {
		t.Errorf("expected 24 fresh entries plus 2 survivors, got %d", got)
	}
}

func TestSchedulerRegenerate_Idempotent(t *testing.T) {
	store := porttest.NewStore()
	sched := newScheduler(store, day(2025, time.January, 1))
	plan := monthlyPlan("plan-1", "co-1", 5)

	ctx := context.Background()
	if err := sched.Generate(ctx, plan); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := sched.Regenerate(ctx, plan, "regenerate"); err != nil {
		t.Fatalf("first regenerate: %v", err)
	}
	if err := sched.Regenerate(ctx, plan, "regenerate"); err != nil {
		t.Fatalf("second regenerate: %v", err)
	}

	if got := len(store.PlanEntries("plan-1")); got != 24 {
		t.Fatalf("regeneration must be idempotent, got %d entries", got)
	}
}

func TestSchedulerOnPlanDeactivated_ClearsOpenFutureOnly(t *testing.T) {
	store := porttest.NewStore()
	now := day(2025, time.June, 1)
	sched := newScheduler(store, now)
	plan := monthlyPlan("plan-1", "co-1", 5)

	ctx := context.Background()
	if err := sched.Generate(ctx, plan); err != nil {
		t.Fatalf("generate: %v", err)
	}
	before := len(store.PlanEntries("plan-1"))
	if before == 0 {
		t.Fatal("expected generated entries")
	}

	if err := sched.OnPlanDeactivated(ctx, plan); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	for _, e := range store.PlanEntries("plan-1") {
		if e.IsOpen() && !e.DueDate.Before(now) {
			t.Errorf("open future entry %s survived deactivation", e.ID)
		}
	}
}
