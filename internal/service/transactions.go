package service

import (
	"context"

	"github.com/ledgerplan/ledgerd/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transactions. Every write passes the validator first; reconciliation of
// linked planned entries runs after the write and its failure never fails
// the transaction operation itself.

func (l *Ledger) ListTransactions(ctx context.Context, companyID string) ([]domain.Transaction, error) {
	return l.store.ListTransactions(ctx, companyID)
}

func (l *Ledger) GetTransaction(ctx context.Context, companyID, id string) (*domain.Transaction, error) {
	tx, err := l.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.CompanyID != companyID {
		return nil, notFound("transaction", id)
	}
	return tx, nil
}

func (l *Ledger) CreateTransaction(ctx context.Context, companyID string, tx *domain.Transaction) (*domain.Transaction, error) {
	tx.CompanyID = companyID
	if err := l.validator.ValidateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	now := l.now().UTC()
	tx.ID = uuid.NewString()
	tx.CreatedAt = &now
	tx.UpdatedAt = &now
	if err := l.store.InsertTransaction(ctx, tx); err != nil {
		return nil, err
	}
	if tx.PlannedEntryID != nil {
		if err := l.reconciler.Reconcile(ctx, *tx.PlannedEntryID); err != nil {
			l.logReconcileFailure(*tx.PlannedEntryID, err)
		}
	}
	return tx, nil
}

func (l *Ledger) UpdateTransaction(ctx context.Context, companyID, id string, tx *domain.Transaction) (*domain.Transaction, error) {
	existing, err := l.GetTransaction(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	tx.CompanyID = companyID
	if err := l.validator.ValidateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	now := l.now().UTC()
	tx.ID = id
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = &now
	if err := l.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	// A moved link leaves a stale status on the old entry; recompute both
	// sides.
	if linkChanged(existing.PlannedEntryID, tx.PlannedEntryID) && existing.PlannedEntryID != nil {
		if err := l.reconciler.Reconcile(ctx, *existing.PlannedEntryID); err != nil {
			l.logReconcileFailure(*existing.PlannedEntryID, err)
		}
	}
	if tx.PlannedEntryID != nil {
		if err := l.reconciler.Reconcile(ctx, *tx.PlannedEntryID); err != nil {
			l.logReconcileFailure(*tx.PlannedEntryID, err)
		}
	}
	return tx, nil
}

func (l *Ledger) DeleteTransaction(ctx context.Context, companyID, id string) error {
	existing, err := l.GetTransaction(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := l.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	if existing.PlannedEntryID != nil {
		if err := l.reconciler.Reconcile(ctx, *existing.PlannedEntryID); err != nil {
			l.logReconcileFailure(*existing.PlannedEntryID, err)
		}
	}
	return nil
}

func linkChanged(old, updated *string) bool {
	if old == nil || updated == nil {
		return old != updated
	}
	return *old != *updated
}

func (l *Ledger) logReconcileFailure(entryID string, err error) {
	if m := l.reconciler.metrics; m != nil {
		m.IncrReconcileFailure()
	}
	l.logger.Warn("reconciliation failed after write",
		zap.String("entry_id", entryID),
		zap.Error(err),
	)
}
