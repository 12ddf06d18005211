package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/port/porttest"
)

func seedLinkedEntry(store *porttest.Store, id string, estimated float64) {
	seedPlanRefs(store)
	store.Entries[id] = domain.PlannedEntry{
		ID:                id,
		CompanyID:         "co-1",
		Name:              "Office rent",
		FlowType:          domain.FlowExpense,
		CategoryID:        "cat-1",
		AccountExpectedID: "acc-1",
		AmountEstimated:   estimated,
		DueDate:           day(2025, time.March, 5),
		Status:            domain.StatusPlanned,
	}
}

func linkedExpense(amount float64, entryID string) *domain.Transaction {
	return &domain.Transaction{
		Date:            day(2025, time.February, 10),
		Description:     "rent installment",
		TransactionType: domain.TransactionExpense,
		CategoryID:      "cat-1",
		AccountFromID:   strPtr("acc-1"),
		Amount:          amount,
		PlannedEntryID:  strPtr(entryID),
		IsConfirmed:     true,
	}
}

func TestCreateTransaction_ReconcilesLinkedEntry(t *testing.T) {
	store := porttest.NewStore()
	seedLinkedEntry(store, "entry-1", 2000)
	svc := newLedger(store, day(2025, time.February, 10))
	ctx := context.Background()

	if _, err := svc.CreateTransaction(ctx, "co-1", linkedExpense(800, "entry-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := store.Entries["entry-1"].Status; got != domain.StatusPartiallyCovered {
		t.Fatalf("expected partially_covered after 800/2000, got %s", got)
	}

	if _, err := svc.CreateTransaction(ctx, "co-1", linkedExpense(1200, "entry-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := store.Entries["entry-1"].Status; got != domain.StatusCovered {
		t.Fatalf("expected covered after full amount, got %s", got)
	}
}

func TestUpdateTransaction_MovedLinkReconcilesBothEntries(t *testing.T) {
	store := porttest.NewStore()
	seedLinkedEntry(store, "entry-1", 2000)
	seedLinkedEntry(store, "entry-2", 2000)
	svc := newLedger(store, day(2025, time.February, 10))
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, "co-1", linkedExpense(2000, "entry-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := store.Entries["entry-1"].Status; got != domain.StatusCovered {
		t.Fatalf("expected entry-1 covered, got %s", got)
	}

	moved := linkedExpense(2000, "entry-2")
	if _, err := svc.UpdateTransaction(ctx, "co-1", created.ID, moved); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := store.Entries["entry-1"].Status; got != domain.StatusPlanned {
		t.Errorf("expected entry-1 reverted to planned after unlink, got %s", got)
	}
	if got := store.Entries["entry-2"].Status; got != domain.StatusCovered {
		t.Errorf("expected entry-2 covered after relink, got %s", got)
	}
}

func TestDeleteTransaction_ReconcilesOldLink(t *testing.T) {
	store := porttest.NewStore()
	seedLinkedEntry(store, "entry-1", 2000)
	svc := newLedger(store, day(2025, time.February, 10))
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, "co-1", linkedExpense(2000, "entry-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, "co-1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := store.Entries["entry-1"].Status; got != domain.StatusPlanned {
		t.Errorf("expected entry reverted to planned after delete, got %s", got)
	}
	if _, ok := store.Txs[created.ID]; ok {
		t.Error("transaction must be gone from the store")
	}
}

func TestCreateTransaction_ValidationFailurePreventsInsert(t *testing.T) {
	store := porttest.NewStore()
	seedLinkedEntry(store, "entry-1", 2000)
	svc := newLedger(store, day(2025, time.February, 10))

	bad := linkedExpense(500, "entry-1")
	bad.AccountFromID = nil // expense must name a source account
	_, err := svc.CreateTransaction(context.Background(), "co-1", bad)
	wantValidation(t, err, "account_from_id")
	if len(store.Txs) != 0 {
		t.Fatalf("rejected transaction must not be stored, found %d", len(store.Txs))
	}
}

func TestDeleteTransaction_VanishedEntryDoesNotFailDelete(t *testing.T) {
	store := porttest.NewStore()
	seedLinkedEntry(store, "entry-1", 2000)
	svc := newLedger(store, day(2025, time.February, 10))
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, "co-1", linkedExpense(500, "entry-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Entry disappears before the delete; reconciliation of the stale
	// link must not block the write.
	delete(store.Entries, "entry-1")
	if err := svc.DeleteTransaction(ctx, "co-1", created.ID); err != nil {
		t.Fatalf("delete with vanished entry must not fail: %v", err)
	}
	if _, ok := store.Txs[created.ID]; ok {
		t.Error("transaction must be gone from the store")
	}
}
