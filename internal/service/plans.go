package service

import (
	"context"

	"github.com/ledgerplan/ledgerd/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recurring plans. Creation and significant edits flow straight into the
// scheduler; plans are never hard-deleted.

func (l *Ledger) ListRecurringPlans(ctx context.Context, companyID string) ([]domain.RecurringPlan, error) {
	return l.store.ListRecurringPlans(ctx, companyID)
}

func (l *Ledger) GetRecurringPlan(ctx context.Context, companyID, id string) (*domain.RecurringPlan, error) {
	plan, err := l.store.GetRecurringPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.CompanyID != companyID {
		return nil, notFound("recurring_plan", id)
	}
	return plan, nil
}

// CreateRecurringPlan stores the plan at version 1 and immediately
// materializes its planned entries.
func (l *Ledger) CreateRecurringPlan(ctx context.Context, companyID string, plan *domain.RecurringPlan) (*domain.RecurringPlan, error) {
	if err := l.validatePlanFields(ctx, companyID, plan); err != nil {
		return nil, err
	}
	now := l.now().UTC()
	plan.ID = uuid.NewString()
	plan.CompanyID = companyID
	plan.Version = 1
	plan.CreatedAt = &now
	plan.UpdatedAt = &now
	if err := l.store.InsertRecurringPlan(ctx, plan); err != nil {
		return nil, err
	}
	if err := l.scheduler.Generate(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdateRecurringPlan applies the edit and, when a scheduling-relevant field
// changed, bumps the version and regenerates the open future entries.
// Renames and note edits leave existing entries alone.
func (l *Ledger) UpdateRecurringPlan(ctx context.Context, companyID, id string, plan *domain.RecurringPlan) (*domain.RecurringPlan, error) {
	existing, err := l.GetRecurringPlan(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := l.validatePlanFields(ctx, companyID, plan); err != nil {
		return nil, err
	}

	now := l.now().UTC()
	plan.ID = id
	plan.CompanyID = companyID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = &now
	plan.Version = existing.Version

	// Deactivating through an update closes the plan the same way a
	// delete does: end_date becomes now even if the payload carried one.
	if !plan.IsActive {
		endDate := now
		plan.EndDate = &endDate
	}

	significant := domain.PlanSignificantlyChanged(existing, plan)
	if significant {
		plan.Version = existing.Version + 1
	}

	if err := l.store.UpdateRecurringPlan(ctx, plan); err != nil {
		return nil, err
	}

	if significant {
		if plan.IsActive {
			if err := l.scheduler.Regenerate(ctx, plan, "regenerate"); err != nil {
				return nil, err
			}
		} else {
			if err := l.scheduler.OnPlanDeactivated(ctx, plan); err != nil {
				return nil, err
			}
		}
	}
	return plan, nil
}

// DeactivateRecurringPlan is the DELETE semantics for plans: stamp the end
// date, flip is_active and clear open future entries. History stays.
func (l *Ledger) DeactivateRecurringPlan(ctx context.Context, companyID, id string) error {
	plan, err := l.GetRecurringPlan(ctx, companyID, id)
	if err != nil {
		return err
	}
	now := l.now().UTC()
	plan.IsActive = false
	plan.EndDate = &now
	plan.UpdatedAt = &now
	if err := l.store.UpdateRecurringPlan(ctx, plan); err != nil {
		return err
	}
	if err := l.scheduler.OnPlanDeactivated(ctx, plan); err != nil {
		return err
	}
	l.logger.Info("plan deactivated", zap.String("plan_id", id))
	return nil
}

// RegenerateRecurringPlan is the explicit regenerate action. It refuses to
// run for inactive plans.
func (l *Ledger) RegenerateRecurringPlan(ctx context.Context, companyID, id string) error {
	plan, err := l.GetRecurringPlan(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !plan.IsActive {
		return &domain.ErrValidation{Field: "is_active", Message: "cannot regenerate an inactive plan"}
	}
	return l.scheduler.Regenerate(ctx, plan, "regenerate")
}

// validatePlanFields checks intrinsic fields and that every reference
// belongs to the same company.
func (l *Ledger) validatePlanFields(ctx context.Context, companyID string, plan *domain.RecurringPlan) error {
	if plan.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if plan.AmountEstimated <= 0 {
		return &domain.ErrValidation{Field: "amount_estimated", Message: "must be positive"}
	}
	if plan.Frequency == "" {
		return &domain.ErrValidation{Field: "frequency", Message: "must not be empty"}
	}
	if plan.DayOfMonth != nil && (*plan.DayOfMonth < 1 || *plan.DayOfMonth > 31) {
		return &domain.ErrValidation{Field: "day_of_month", Message: "must be between 1 and 31"}
	}
	if plan.EndDate != nil && plan.EndDate.Before(plan.StartDate) {
		return &domain.ErrValidation{Field: "end_date", Message: "must not precede start_date"}
	}
	if err := l.checkCompanyCategory(ctx, companyID, plan.CategoryID); err != nil {
		return err
	}
	if err := l.checkCompanyAccount(ctx, companyID, plan.AccountExpectedID); err != nil {
		return err
	}
	if plan.ContactID != nil {
		if err := l.checkCompanyContact(ctx, companyID, *plan.ContactID); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) checkCompanyCategory(ctx context.Context, companyID, id string) error {
	category, err := l.store.GetCategory(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return &domain.ErrValidation{Field: "category_id", Message: "category does not exist"}
		}
		return err
	}
	if category.CompanyID != companyID {
		return &domain.ErrValidation{Field: "category_id", Message: "category does not exist"}
	}
	return nil
}

func (l *Ledger) checkCompanyAccount(ctx context.Context, companyID, id string) error {
	account, err := l.store.GetAccount(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return &domain.ErrValidation{Field: "account_expected_id", Message: "account does not exist"}
		}
		return err
	}
	if account.CompanyID != companyID {
		return &domain.ErrValidation{Field: "account_expected_id", Message: "account does not exist"}
	}
	return nil
}

func (l *Ledger) checkCompanyContact(ctx context.Context, companyID, id string) error {
	contact, err := l.store.GetContact(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return &domain.ErrValidation{Field: "contact_id", Message: "contact does not exist"}
		}
		return err
	}
	if contact.CompanyID != companyID {
		return &domain.ErrValidation{Field: "contact_id", Message: "contact does not exist"}
	}
	return nil
}
