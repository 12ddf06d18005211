package postgrest

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

// Recurring plans

func (s *Store) ListRecurringPlans(ctx context.Context, companyID string) ([]domain.RecurringPlan, error) {
	path := fmt.Sprintf("recurring_plans?company_id=eq.%s&order=name.asc", companyID)
	return getList[domain.RecurringPlan](ctx, s, "ListRecurringPlans", "recurring_plans", path)
}

func (s *Store) GetRecurringPlan(ctx context.Context, id string) (*domain.RecurringPlan, error) {
	return getOne[domain.RecurringPlan](ctx, s, "GetRecurringPlan", "recurring_plans", id)
}

func (s *Store) InsertRecurringPlan(ctx context.Context, plan *domain.RecurringPlan) error {
	return insertOne(ctx, s, "InsertRecurringPlan", "recurring_plans", plan)
}

func (s *Store) UpdateRecurringPlan(ctx context.Context, plan *domain.RecurringPlan) error {
	return updateByID(ctx, s, "UpdateRecurringPlan", "recurring_plans", plan.ID, plan)
}

// Planned entries

func (s *Store) ListPlannedEntries(ctx context.Context, companyID string) ([]domain.PlannedEntry, error) {
	path := fmt.Sprintf("planned_entries?company_id=eq.%s&order=due_date.asc", companyID)
	return getList[domain.PlannedEntry](ctx, s, "ListPlannedEntries", "planned_entries", path)
}

func (s *Store) GetPlannedEntry(ctx context.Context, id string) (*domain.PlannedEntry, error) {
	return getOne[domain.PlannedEntry](ctx, s, "GetPlannedEntry", "planned_entries", id)
}

func (s *Store) InsertPlannedEntry(ctx context.Context, entry *domain.PlannedEntry) error {
	return insertOne(ctx, s, "InsertPlannedEntry", "planned_entries", entry)
}

func (s *Store) UpdatePlannedEntry(ctx context.Context, entry *domain.PlannedEntry) error {
	return updateByID(ctx, s, "UpdatePlannedEntry", "planned_entries", entry.ID, entry)
}

func (s *Store) DeletePlannedEntry(ctx context.Context, id string) error {
	return deleteByPath(ctx, s, "DeletePlannedEntry", "planned_entries", fmt.Sprintf("planned_entries?id=eq.%s", id))
}

// UpdatePlannedEntryStatus patches only the status column, so concurrent
// reconciliations never clobber unrelated fields.
func (s *Store) UpdatePlannedEntryStatus(ctx context.Context, id string, status domain.PlannedStatus, updatedAt time.Time) error {
	payload := map[string]any{
		"status":     status,
		"updated_at": queryTime(updatedAt),
	}
	return updateByID(ctx, s, "UpdatePlannedEntryStatus", "planned_entries", id, payload)
}

func (s *Store) DeleteOpenEntriesFrom(ctx context.Context, planID string, cutoff time.Time) error {
	path := fmt.Sprintf(
		"planned_entries?recurring_plan_id=eq.%s&status=in.(planned,partially_covered)&due_date=gte.%s",
		planID, queryTime(cutoff),
	)
	return deleteByPath(ctx, s, "DeleteOpenEntriesFrom", "planned_entries", path)
}

func (s *Store) ListEntriesDueBetween(ctx context.Context, companyID string, from, to time.Time) ([]domain.PlannedEntry, error) {
	path := fmt.Sprintf(
		"planned_entries?company_id=eq.%s&status=neq.cancelled&due_date=gte.%s&due_date=lt.%s&order=due_date.asc",
		companyID, queryTime(from), queryTime(to),
	)
	return getList[domain.PlannedEntry](ctx, s, "ListEntriesDueBetween", "planned_entries", path)
}

func (s *Store) SumPlannedBefore(ctx context.Context, companyID string, before time.Time) (income, expense float64, err error) {
	path := fmt.Sprintf(
		"planned_entries?company_id=eq.%s&status=neq.cancelled&due_date=lt.%s&select=flow_type,total:amount_estimated.sum()",
		companyID, queryTime(before),
	)
	rows, err := getList[sumRow](ctx, s, "SumPlannedBefore", "planned_entries", path)
	if err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		switch domain.FlowType(r.FlowType) {
		case domain.FlowIncome:
			income = r.Total
		case domain.FlowExpense:
			expense = r.Total
		}
	}
	return income, expense, nil
}
