package service

import (
	"context"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var aggregatorTracer = otel.Tracer("aggregator")

// maxTimelineFuture caps how far ahead a timeline may reach.
const maxTimelineFuture = 5 * 365 * 24 * time.Hour

// millisISO renders ISO-8601 with millisecond precision, always UTC.
const millisISO = "2006-01-02T15:04:05.000Z"

// Aggregator builds the time-bucketed cash flow view: real transactions and
// planned entries folded into day/week/month/year buckets with running
// cumulative balances.
type Aggregator struct {
	store   port.LedgerStore
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewAggregator creates an aggregator. now is injectable for tests; pass nil
// for the wall clock.
func NewAggregator(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     now,
	}
}

// Timeline returns a dense run of buckets covering [from, to). Buckets with
// no activity are emitted empty so consumers can chart without gap-filling.
// to is clamped to five years past now.
func (a *Aggregator) Timeline(ctx context.Context, companyID string, mode domain.TimelineMode, from, to time.Time) ([]domain.TimelineBucket, error) {
	ctx, span := aggregatorTracer.Start(ctx, "Aggregator.Timeline")
	defer span.End()
	span.SetAttributes(
		attribute.String("company.id", companyID),
		attribute.String("timeline.mode", string(mode)),
	)

	from = from.UTC()
	to = to.UTC()
	if maxFuture := a.now().UTC().Add(maxTimelineFuture); to.After(maxFuture) {
		to = maxFuture
	}

	var (
		txs                          []domain.Transaction
		entries                      []domain.PlannedEntry
		baseIncome, baseExpense      float64
		basePlannedIn, basePlannedEx float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = a.store.ListTransactionsBetween(gctx, companyID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = a.store.ListEntriesDueBetween(gctx, companyID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		baseIncome, baseExpense, err = a.store.SumTransactionsBefore(gctx, companyID, from)
		return err
	})
	g.Go(func() error {
		var err error
		basePlannedIn, basePlannedEx, err = a.store.SumPlannedBefore(gctx, companyID, from)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets := make(map[time.Time]*domain.TimelineBucket)
	getBucket := func(key time.Time) *domain.TimelineBucket {
		if b, ok := buckets[key]; ok {
			return b
		}
		b := emptyBucket(key, mode)
		buckets[key] = b
		return b
	}

	for _, tx := range txs {
		b := getBucket(bucketStart(tx.Date.UTC(), mode))
		switch tx.TransactionType {
		case domain.TransactionIncome:
			b.RealIncome += tx.Amount
		case domain.TransactionExpense:
			b.RealExpense += tx.Amount
		case domain.TransactionTransfer:
			// Transfers move money between own accounts; net zero.
		}
		b.NetReal = b.RealIncome - b.RealExpense
		b.Transactions = append(b.Transactions, domain.TimelineTransaction{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      tx.Amount,
			Date:        tx.Date.UTC().Format(millisISO),
			Type:        tx.TransactionType,
		})
	}

	for _, e := range entries {
		if e.Status == domain.StatusCancelled {
			continue
		}
		b := getBucket(bucketStart(e.DueDate.UTC(), mode))
		switch e.FlowType {
		case domain.FlowIncome:
			b.PlannedIncome += e.AmountEstimated
		case domain.FlowExpense:
			b.PlannedExpense += e.AmountEstimated
		}
		b.NetPlanned = b.PlannedIncome - b.PlannedExpense
		b.PlannedEntries = append(b.PlannedEntries, domain.TimelinePlannedEntry{
			ID:              e.ID,
			Name:            e.Name,
			AmountEstimated: e.AmountEstimated,
			DueDate:         e.DueDate.UTC().Format(millisISO),
			FlowType:        e.FlowType,
			Status:          e.Status,
		})
	}

	list := make([]domain.TimelineBucket, 0, len(buckets))
	runningReal := baseIncome - baseExpense
	runningPlanned := basePlannedIn - basePlannedEx

	cursor := bucketStart(from, mode)
	endLimit := bucketStart(to, mode)
	for cursor.Before(endLimit) {
		b, ok := buckets[cursor]
		if !ok {
			b = emptyBucket(cursor, mode)
		}
		runningReal += b.NetReal
		runningPlanned += b.NetPlanned
		b.CumulativeReal = runningReal
		b.CumulativePlanned = runningPlanned
		list = append(list, *b)
		cursor = nextBucket(cursor, mode)
	}

	if a.metrics != nil {
		a.metrics.ObserveTimelineBuckets(len(list))
	}
	a.logger.Debug("aggregator: timeline built",
		zap.String("company_id", companyID),
		zap.String("mode", string(mode)),
		zap.Int("buckets", len(list)),
	)
	return list, nil
}

func emptyBucket(start time.Time, mode domain.TimelineMode) *domain.TimelineBucket {
	return &domain.TimelineBucket{
		Start:          start.Format(millisISO),
		End:            nextBucket(start, mode).Format(millisISO),
		Transactions:   []domain.TimelineTransaction{},
		PlannedEntries: []domain.TimelinePlannedEntry{},
	}
}

// bucketStart truncates t to its bucket boundary in UTC. Weeks start on
// Monday.
func bucketStart(t time.Time, mode domain.TimelineMode) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch mode {
	case domain.ModeDay:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case domain.ModeWeek:
		offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
		return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	case domain.ModeMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default: // year
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

func nextBucket(t time.Time, mode domain.TimelineMode) time.Time {
	switch mode {
	case domain.ModeDay:
		return t.AddDate(0, 0, 1)
	case domain.ModeWeek:
		return t.AddDate(0, 0, 7)
	case domain.ModeMonth:
		return t.AddDate(0, 1, 0)
	default: // year
		return t.AddDate(1, 0, 0)
	}
}
