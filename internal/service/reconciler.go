package service

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var reconcilerTracer = otel.Tracer("reconciler")

// Reconciler recomputes a planned entry's coverage status from its linked
// transactions. It is the only writer of planned/partially_covered/covered/
// overdue; cancelled is sticky and operator-owned.
type Reconciler struct {
	store   port.LedgerStore
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewReconciler creates a reconciler. now is injectable for tests; pass nil
// for the wall clock.
func NewReconciler(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger, now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     now,
	}
}

// Reconcile recomputes the entry's status and writes it back only when it
// changed. A missing entry is not an error: the link was weak and the entry
// is gone, there is nothing to reconcile.
func (r *Reconciler) Reconcile(ctx context.Context, entryID string) error {
	ctx, span := reconcilerTracer.Start(ctx, "Reconciler.Reconcile")
	defer span.End()
	span.SetAttributes(attribute.String("entry.id", entryID))

	entry, err := r.store.GetPlannedEntry(ctx, entryID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	if entry.Status == domain.StatusCancelled {
		return nil
	}

	txs, err := r.store.ListTransactionsByPlannedEntry(ctx, entryID)
	if err != nil {
		return err
	}

	// Every linked transaction counts, confirmed or not.
	var total float64
	for _, tx := range txs {
		total += tx.Amount
	}

	status := coverageStatus(total, entry.AmountEstimated)
	if (status == domain.StatusPlanned || status == domain.StatusPartiallyCovered) &&
		entry.DueDate.Before(r.now().UTC()) {
		status = domain.StatusOverdue
	}

	if status == entry.Status {
		return nil
	}

	if err := r.store.UpdatePlannedEntryStatus(ctx, entryID, status, r.now().UTC()); err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.IncrReconcileTransition(string(status))
	}
	r.logger.Debug("reconciler: status updated",
		zap.String("entry_id", entryID),
		zap.String("from", string(entry.Status)),
		zap.String("to", string(status)),
		zap.Float64("covered_total", total),
	)
	return nil
}

func coverageStatus(total, estimated float64) domain.PlannedStatus {
	switch {
	case total <= 0:
		return domain.StatusPlanned
	case total < estimated:
		return domain.StatusPartiallyCovered
	default:
		return domain.StatusCovered
	}
}
