package service

import (
	"context"

	"github.com/ledgerplan/ledgerd/internal/domain"

	"github.com/google/uuid"
)

// Planned entries. Manual entries share the table with scheduler output;
// creation always starts at planned, updates pass through the reconciler so
// an operator edit cannot leave a stale coverage status behind.

func (l *Ledger) ListPlannedEntries(ctx context.Context, companyID string) ([]domain.PlannedEntry, error) {
	return l.store.ListPlannedEntries(ctx, companyID)
}

func (l *Ledger) GetPlannedEntry(ctx context.Context, companyID, id string) (*domain.PlannedEntry, error) {
	entry, err := l.store.GetPlannedEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, notFound("planned_entry", id)
	}
	return entry, nil
}

func (l *Ledger) CreatePlannedEntry(ctx context.Context, companyID string, entry *domain.PlannedEntry) (*domain.PlannedEntry, error) {
	if err := l.validateEntryFields(ctx, companyID, entry); err != nil {
		return nil, err
	}
	now := l.now().UTC()
	entry.ID = uuid.NewString()
	entry.CompanyID = companyID
	entry.Status = domain.StatusPlanned
	entry.CreatedAt = &now
	entry.UpdatedAt = &now
	if err := l.store.InsertPlannedEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (l *Ledger) UpdatePlannedEntry(ctx context.Context, companyID, id string, entry *domain.PlannedEntry) (*domain.PlannedEntry, error) {
	existing, err := l.GetPlannedEntry(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := l.validateEntryFields(ctx, companyID, entry); err != nil {
		return nil, err
	}
	now := l.now().UTC()
	entry.ID = id
	entry.CompanyID = companyID
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = &now
	if err := l.store.UpdatePlannedEntry(ctx, entry); err != nil {
		return nil, err
	}
	// The operator's status write stands only where the reconciler agrees;
	// cancelled is sticky and skips recalculation entirely.
	if err := l.reconciler.Reconcile(ctx, id); err != nil {
		l.logReconcileFailure(id, err)
	}
	return l.GetPlannedEntry(ctx, companyID, id)
}

func (l *Ledger) DeletePlannedEntry(ctx context.Context, companyID, id string) error {
	if _, err := l.GetPlannedEntry(ctx, companyID, id); err != nil {
		return err
	}
	return l.store.DeletePlannedEntry(ctx, id)
}

func (l *Ledger) validateEntryFields(ctx context.Context, companyID string, entry *domain.PlannedEntry) error {
	if entry.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if entry.AmountEstimated <= 0 {
		return &domain.ErrValidation{Field: "amount_estimated", Message: "must be positive"}
	}
	if err := l.checkCompanyCategory(ctx, companyID, entry.CategoryID); err != nil {
		return err
	}
	if err := l.checkCompanyAccount(ctx, companyID, entry.AccountExpectedID); err != nil {
		return err
	}
	if entry.ContactID != nil {
		if err := l.checkCompanyContact(ctx, companyID, *entry.ContactID); err != nil {
			return err
		}
	}
	if entry.RecurringPlanID != nil {
		plan, err := l.store.GetRecurringPlan(ctx, *entry.RecurringPlanID)
		if err != nil {
			if isNotFound(err) {
				return &domain.ErrValidation{Field: "recurring_plan_id", Message: "plan does not exist"}
			}
			return err
		}
		if plan.CompanyID != companyID {
			return &domain.ErrValidation{Field: "recurring_plan_id", Message: "plan does not exist"}
		}
	}
	return nil
}
