package service

import (
	"context"
	"errors"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/port"
)

// Validator checks the shape and references of a transaction before it is
// written. Every failure is an ErrValidation: from the API's point of view a
// cross-tenant reference is a bad request, not a missing resource.
type Validator struct {
	store port.LedgerStore
}

// NewValidator creates a transaction validator.
func NewValidator(store port.LedgerStore) *Validator {
	return &Validator{store: store}
}

// ValidateTransaction enforces the account shape per transaction type plus
// all referential rules. The account sides are type-determined:
// income credits account_to, expense debits account_from, transfer uses
// both (and they must differ). Amounts are deliberately unconstrained so
// negative corrections can be recorded against a planned entry.
func (v *Validator) ValidateTransaction(ctx context.Context, tx *domain.Transaction) error {
	switch tx.TransactionType {
	case domain.TransactionIncome:
		if tx.AccountToID == nil {
			return &domain.ErrValidation{Field: "account_to_id", Message: "income requires a destination account"}
		}
		if tx.AccountFromID != nil {
			return &domain.ErrValidation{Field: "account_from_id", Message: "income must not set a source account"}
		}
	case domain.TransactionExpense:
		if tx.AccountFromID == nil {
			return &domain.ErrValidation{Field: "account_from_id", Message: "expense requires a source account"}
		}
		if tx.AccountToID != nil {
			return &domain.ErrValidation{Field: "account_to_id", Message: "expense must not set a destination account"}
		}
	case domain.TransactionTransfer:
		if tx.AccountFromID == nil || tx.AccountToID == nil {
			return &domain.ErrValidation{Field: "account_from_id", Message: "transfer requires both accounts"}
		}
		if *tx.AccountFromID == *tx.AccountToID {
			return &domain.ErrValidation{Field: "account_to_id", Message: "transfer accounts must differ"}
		}
	default:
		return &domain.ErrValidation{Field: "transaction_type", Message: "unknown transaction type"}
	}

	if tx.AccountFromID != nil {
		if err := v.checkAccount(ctx, tx.CompanyID, *tx.AccountFromID, "account_from_id"); err != nil {
			return err
		}
	}
	if tx.AccountToID != nil {
		if err := v.checkAccount(ctx, tx.CompanyID, *tx.AccountToID, "account_to_id"); err != nil {
			return err
		}
	}

	if err := v.checkCategory(ctx, tx); err != nil {
		return err
	}

	if tx.PlannedEntryID != nil {
		if err := v.checkPlannedEntry(ctx, tx, *tx.PlannedEntryID); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) checkAccount(ctx context.Context, companyID, accountID, field string) error {
	account, err := v.store.GetAccount(ctx, accountID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return &domain.ErrValidation{Field: field, Message: "account does not exist"}
		}
		return err
	}
	if account.CompanyID != companyID {
		return &domain.ErrValidation{Field: field, Message: "account does not exist"}
	}
	if !account.IsActive {
		return &domain.ErrValidation{Field: field, Message: "account is inactive"}
	}
	return nil
}

func (v *Validator) checkCategory(ctx context.Context, tx *domain.Transaction) error {
	category, err := v.store.GetCategory(ctx, tx.CategoryID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return &domain.ErrValidation{Field: "category_id", Message: "category does not exist"}
		}
		return err
	}
	if category.CompanyID != tx.CompanyID {
		return &domain.ErrValidation{Field: "category_id", Message: "category does not exist"}
	}
	// Transfers carry a category for labeling only; flow direction does not
	// apply to them.
	if tx.TransactionType == domain.TransactionTransfer {
		return nil
	}
	if string(category.FlowType) != string(tx.TransactionType) {
		return &domain.ErrValidation{Field: "category_id", Message: "category flow does not match transaction type"}
	}
	return nil
}

func (v *Validator) checkPlannedEntry(ctx context.Context, tx *domain.Transaction, entryID string) error {
	entry, err := v.store.GetPlannedEntry(ctx, entryID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return &domain.ErrValidation{Field: "planned_entry_id", Message: "planned entry does not exist"}
		}
		return err
	}
	if entry.CompanyID != tx.CompanyID {
		return &domain.ErrValidation{Field: "planned_entry_id", Message: "planned entry does not exist"}
	}
	if entry.Status == domain.StatusCancelled {
		return &domain.ErrValidation{Field: "planned_entry_id", Message: "planned entry is cancelled"}
	}
	if tx.TransactionType == domain.TransactionTransfer {
		return &domain.ErrValidation{Field: "planned_entry_id", Message: "transfers cannot cover a planned entry"}
	}
	if string(entry.FlowType) != string(tx.TransactionType) {
		return &domain.ErrValidation{Field: "planned_entry_id", Message: "planned entry flow does not match transaction type"}
	}
	return nil
}
