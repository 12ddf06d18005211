// Package service holds the ledger's application core: catalog CRUD, the
// recurring plan scheduler, planned entry reconciliation, the timeline
// aggregator and the transaction validator. Handlers call in here; this
// package talks only to port interfaces.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port"

	"go.uber.org/zap"
)

// Ledger composes the application services over a single store.
type Ledger struct {
	store      port.LedgerStore
	scheduler  *Scheduler
	reconciler *Reconciler
	aggregator *Aggregator
	validator  *Validator
	logger     *zap.Logger
	now        func() time.Time
}

// NewLedger wires the service core. horizon is the number of entries the
// scheduler materializes per plan. now is injectable for tests; pass nil for
// the wall clock.
func NewLedger(store port.LedgerStore, horizon int, metrics *observability.Metrics, logger *zap.Logger, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		store:      store,
		scheduler:  NewScheduler(store, horizon, metrics, logger, now),
		reconciler: NewReconciler(store, metrics, logger, now),
		aggregator: NewAggregator(store, metrics, logger, now),
		validator:  NewValidator(store),
		logger:     logger,
		now:        now,
	}
}

// Timeline builds the bucketed cash flow view for a company.
func (l *Ledger) Timeline(ctx context.Context, companyID string, mode domain.TimelineMode, from, to time.Time) ([]domain.TimelineBucket, error) {
	return l.aggregator.Timeline(ctx, companyID, mode, from, to)
}

// notFound builds the uniform not-found for a resource. The store's Get* is
// unscoped; CRUD callers must not reveal whether a foreign tenant's id
// exists, so cross-tenant hits answer with this too.
func notFound(resource, id string) error {
	return &domain.ErrNotFound{Resource: resource, ID: id}
}

func isNotFound(err error) bool {
	var nf *domain.ErrNotFound
	return errors.As(err, &nf)
}
