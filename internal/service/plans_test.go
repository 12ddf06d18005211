package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port/porttest"
	"github.com/ledgerplan/ledgerd/internal/service"

	"go.uber.org/zap"
)

func newLedger(store *porttest.Store, now time.Time) *service.Ledger {
	return service.NewLedger(store, 24, observability.NewMetrics(), zap.NewNop(), fixedClock(now))
}

func seedPlanRefs(store *porttest.Store) {
	store.Categories["cat-1"] = domain.Category{
		ID: "cat-1", CompanyID: "co-1", Name: "Rent", FlowType: domain.FlowExpense,
	}
	store.Accounts["acc-1"] = domain.Account{
		ID: "acc-1", CompanyID: "co-1", Name: "Checking",
		AccountType: domain.AccountBank, Currency: "EUR", IsActive: true,
	}
}

func planInput(dayOfMonth int) *domain.RecurringPlan {
	return &domain.RecurringPlan{
		Name:              "Office rent",
		FlowType:          domain.FlowExpense,
		CategoryID:        "cat-1",
		AccountExpectedID: "acc-1",
		AmountEstimated:   2000,
		Frequency:         "monthly",
		DayOfMonth:        &dayOfMonth,
		StartDate:         day(2025, time.January, 1),
		IsActive:          true,
	}
}

func TestCreateRecurringPlan_StartsAtVersionOneAndGenerates(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	svc := newLedger(store, day(2025, time.January, 1))

	created, err := svc.CreateRecurringPlan(context.Background(), "co-1", planInput(5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Version != 1 {
		t.Errorf("expected version 1, got %d", created.Version)
	}
	if got := len(store.PlanEntries(created.ID)); got != 24 {
		t.Errorf("expected 24 generated entries, got %d", got)
	}
}

func TestUpdateRecurringPlan_SignificantChangeBumpsVersion(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	svc := newLedger(store, day(2025, time.January, 1))
	ctx := context.Background()

	created, err := svc.CreateRecurringPlan(ctx, "co-1", planInput(5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := planInput(5)
	edit.AmountEstimated = 2500
	updated, err := svc.UpdateRecurringPlan(ctx, "co-1", created.ID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("expected version bump to 2, got %d", updated.Version)
	}

	// Regenerated entries carry the new version and amount.
	entries := store.PlanEntries(created.ID)
	if len(entries) != 24 {
		t.Fatalf("expected 24 entries after regeneration, got %d", len(entries))
	}
	for _, e := range entries {
		if e.RecurringPlanVersion == nil || *e.RecurringPlanVersion != 2 {
			t.Fatalf("entry %s kept stale version %v", e.ID, e.RecurringPlanVersion)
		}
		if e.AmountEstimated != 2500 {
			t.Fatalf("entry %s kept stale amount %f", e.ID, e.AmountEstimated)
		}
	}
}

func TestUpdateRecurringPlan_RenameDoesNotBumpOrRegenerate(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	svc := newLedger(store, day(2025, time.January, 1))
	ctx := context.Background()

	created, err := svc.CreateRecurringPlan(ctx, "co-1", planInput(5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	originalEntries := store.PlanEntries(created.ID)

	edit := planInput(5)
	edit.Name = "Headquarters rent"
	updated, err := svc.UpdateRecurringPlan(ctx, "co-1", created.ID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 1 {
		t.Errorf("rename must not bump version, got %d", updated.Version)
	}
	after := store.PlanEntries(created.ID)
	if len(after) != len(originalEntries) {
		t.Fatalf("rename must not regenerate entries")
	}
	// Entry ids unchanged: nothing was deleted and recreated.
	if after[0].ID != originalEntries[0].ID {
		t.Errorf("rename must leave existing entries untouched")
	}
}

func TestDeactivateRecurringPlan_StampsEndDateAndClearsFuture(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	now := day(2025, time.January, 1)
	svc := newLedger(store, now)
	ctx := context.Background()

	created, err := svc.CreateRecurringPlan(ctx, "co-1", planInput(5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeactivateRecurringPlan(ctx, "co-1", created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	plan := store.Plans[created.ID]
	if plan.IsActive {
		t.Error("plan must be inactive")
	}
	if plan.EndDate == nil || !plan.EndDate.Equal(now) {
		t.Errorf("expected end_date stamped to now, got %v", plan.EndDate)
	}
	if got := len(store.PlanEntries(created.ID)); got != 0 {
		t.Errorf("expected open future entries cleared, got %d", got)
	}
}

func TestUpdateRecurringPlan_DeactivationOverridesPayloadEndDate(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	now := day(2025, time.January, 1)
	svc := newLedger(store, now)
	ctx := context.Background()

	created, err := svc.CreateRecurringPlan(ctx, "co-1", planInput(5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := planInput(5)
	edit.IsActive = false
	requested := day(2026, time.December, 31)
	edit.EndDate = &requested
	updated, err := svc.UpdateRecurringPlan(ctx, "co-1", created.ID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.EndDate == nil || !updated.EndDate.Equal(now) {
		t.Errorf("deactivation must stamp end_date to now, got %v", updated.EndDate)
	}
	if got := len(store.PlanEntries(created.ID)); got != 0 {
		t.Errorf("expected open future entries cleared, got %d", got)
	}
}

func TestRegenerateRecurringPlan_RejectsInactive(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	svc := newLedger(store, day(2025, time.January, 1))
	ctx := context.Background()

	created, err := svc.CreateRecurringPlan(ctx, "co-1", planInput(5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeactivateRecurringPlan(ctx, "co-1", created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	err = svc.RegenerateRecurringPlan(ctx, "co-1", created.ID)
	var v *domain.ErrValidation
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error for inactive plan, got %v", err)
	}
}

func TestGetRecurringPlan_CrossTenantReadsAsNotFound(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	svc := newLedger(store, day(2025, time.January, 1))
	ctx := context.Background()

	created, err := svc.CreateRecurringPlan(ctx, "co-1", planInput(5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.GetRecurringPlan(ctx, "co-2", created.ID)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}

func TestCreateRecurringPlan_RejectsForeignReferences(t *testing.T) {
	store := porttest.NewStore()
	seedPlanRefs(store)
	store.Categories["cat-foreign"] = domain.Category{
		ID: "cat-foreign", CompanyID: "co-2", Name: "Other", FlowType: domain.FlowExpense,
	}
	svc := newLedger(store, day(2025, time.January, 1))

	input := planInput(5)
	input.CategoryID = "cat-foreign"
	_, err := svc.CreateRecurringPlan(context.Background(), "co-1", input)
	wantValidation(t, err, "category_id")
}
