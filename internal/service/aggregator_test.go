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

func newAggregator(store *porttest.Store, now time.Time) *service.Aggregator {
	return service.NewAggregator(store, observability.NewMetrics(), zap.NewNop(), fixedClock(now))
}

func seedTx(store *porttest.Store, id string, txType domain.TransactionType, amount float64, date time.Time) {
	store.Txs[id] = domain.Transaction{
		ID: id, CompanyID: "co-1", Date: date, Description: id,
		TransactionType: txType, CategoryID: "cat-1", Amount: amount,
	}
}

func seedPlanned(store *porttest.Store, id string, flow domain.FlowType, amount float64, due time.Time, status domain.PlannedStatus) {
	store.Entries[id] = domain.PlannedEntry{
		ID: id, CompanyID: "co-1", Name: id, FlowType: flow,
		CategoryID: "cat-1", AccountExpectedID: "acc-1",
		AmountEstimated: amount, DueDate: due, Status: status,
	}
}

func TestTimeline_DenseMonthBucketsWithCumulatives(t *testing.T) {
	store := porttest.NewStore()
	now := day(2025, time.January, 15)

	// History before the window seeds the cumulative baseline.
	seedTx(store, "hist-in", domain.TransactionIncome, 1000, day(2024, time.November, 3))
	seedTx(store, "hist-out", domain.TransactionExpense, 400, day(2024, time.December, 10))

	// Window activity: January has a transaction, February is empty,
	// March has a planned entry.
	seedTx(store, "jan-in", domain.TransactionIncome, 500, day(2025, time.January, 10))
	seedPlanned(store, "mar-bill", domain.FlowExpense, 200, day(2025, time.March, 8), domain.StatusPlanned)

	agg := newAggregator(store, now)
	buckets, err := agg.Timeline(context.Background(), "co-1", domain.ModeMonth,
		day(2025, time.January, 1), day(2025, time.April, 1))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}

	if len(buckets) != 3 {
		t.Fatalf("expected 3 dense buckets, got %d", len(buckets))
	}

	jan, feb, mar := buckets[0], buckets[1], buckets[2]

	if jan.Start != "2025-01-01T00:00:00.000Z" {
		t.Errorf("unexpected bucket start %q", jan.Start)
	}
	if jan.RealIncome != 500 || jan.NetReal != 500 {
		t.Errorf("jan: expected real income 500, got %+v", jan)
	}
	// Baseline 1000 - 400 = 600, plus January's 500.
	if jan.CumulativeReal != 1100 {
		t.Errorf("jan: expected cumulative 1100, got %f", jan.CumulativeReal)
	}

	if feb.NetReal != 0 || feb.NetPlanned != 0 {
		t.Errorf("feb must be empty, got %+v", feb)
	}
	if feb.CumulativeReal != 1100 {
		t.Errorf("feb: cumulative must carry forward, got %f", feb.CumulativeReal)
	}
	if len(feb.Transactions) != 0 || len(feb.PlannedEntries) != 0 {
		t.Errorf("feb must have empty item lists")
	}

	if mar.PlannedExpense != 200 || mar.NetPlanned != -200 {
		t.Errorf("mar: expected planned expense 200, got %+v", mar)
	}
	if mar.CumulativePlanned != -200 {
		t.Errorf("mar: expected cumulative planned -200, got %f", mar.CumulativePlanned)
	}
	if mar.CumulativeReal != 1100 {
		t.Errorf("mar: expected cumulative real 1100, got %f", mar.CumulativeReal)
	}
}

func TestTimeline_CancelledEntriesExcluded(t *testing.T) {
	store := porttest.NewStore()
	seedPlanned(store, "cancelled", domain.FlowExpense, 999, day(2025, time.January, 10), domain.StatusCancelled)
	seedPlanned(store, "live", domain.FlowIncome, 100, day(2025, time.January, 20), domain.StatusPlanned)

	agg := newAggregator(store, day(2025, time.January, 1))
	buckets, err := agg.Timeline(context.Background(), "co-1", domain.ModeMonth,
		day(2025, time.January, 1), day(2025, time.February, 1))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].PlannedExpense != 0 {
		t.Errorf("cancelled entry must not contribute, got %f", buckets[0].PlannedExpense)
	}
	if buckets[0].PlannedIncome != 100 {
		t.Errorf("expected live entry income 100, got %f", buckets[0].PlannedIncome)
	}
}

func TestTimeline_TransfersDoNotMoveNet(t *testing.T) {
	store := porttest.NewStore()
	seedTx(store, "xfer", domain.TransactionTransfer, 5000, day(2025, time.January, 10))

	agg := newAggregator(store, day(2025, time.January, 1))
	buckets, err := agg.Timeline(context.Background(), "co-1", domain.ModeDay,
		day(2025, time.January, 10), day(2025, time.January, 11))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	b := buckets[0]
	if b.NetReal != 0 || b.RealIncome != 0 || b.RealExpense != 0 {
		t.Errorf("transfer must not move sums, got %+v", b)
	}
	// The transfer still appears in the drill-down list.
	if len(b.Transactions) != 1 {
		t.Errorf("transfer must appear in the item list, got %d items", len(b.Transactions))
	}
}

func TestTimeline_ClampsFarFutureEnd(t *testing.T) {
	store := porttest.NewStore()
	now := day(2025, time.January, 1)
	agg := newAggregator(store, now)

	buckets, err := agg.Timeline(context.Background(), "co-1", domain.ModeYear,
		day(2025, time.January, 1), day(2099, time.January, 1))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	// Clamped to ~5 years ahead, so nowhere near 74 buckets.
	if len(buckets) > 6 {
		t.Errorf("expected end clamp to five years, got %d year buckets", len(buckets))
	}
	if len(buckets) == 0 {
		t.Error("expected at least one bucket")
	}
}

func TestTimeline_WeekBucketsStartMonday(t *testing.T) {
	store := porttest.NewStore()
	// Wednesday.
	seedTx(store, "wed", domain.TransactionIncome, 50, day(2025, time.June, 11))

	agg := newAggregator(store, day(2025, time.June, 1))
	buckets, err := agg.Timeline(context.Background(), "co-1", domain.ModeWeek,
		day(2025, time.June, 9), day(2025, time.June, 16))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 week bucket, got %d", len(buckets))
	}
	if buckets[0].Start != "2025-06-09T00:00:00.000Z" {
		t.Errorf("expected Monday start, got %q", buckets[0].Start)
	}
	if buckets[0].RealIncome != 50 {
		t.Errorf("expected Wednesday income in Monday bucket, got %f", buckets[0].RealIncome)
	}
}
