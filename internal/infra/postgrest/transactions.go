package postgrest

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

func (s *Store) ListTransactions(ctx context.Context, companyID string) ([]domain.Transaction, error) {
	path := fmt.Sprintf("transactions?company_id=eq.%s&order=date.desc", companyID)
	return getList[domain.Transaction](ctx, s, "ListTransactions", "transactions", path)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return getOne[domain.Transaction](ctx, s, "GetTransaction", "transactions", id)
}

func (s *Store) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	return insertOne(ctx, s, "InsertTransaction", "transactions", tx)
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *domain.Transaction) error {
	return updateByID(ctx, s, "UpdateTransaction", "transactions", tx.ID, tx)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return deleteByPath(ctx, s, "DeleteTransaction", "transactions", fmt.Sprintf("transactions?id=eq.%s", id))
}

func (s *Store) ListTransactionsByPlannedEntry(ctx context.Context, plannedEntryID string) ([]domain.Transaction, error) {
	path := fmt.Sprintf("transactions?planned_entry_id=eq.%s", plannedEntryID)
	return getList[domain.Transaction](ctx, s, "ListTransactionsByPlannedEntry", "transactions", path)
}

func (s *Store) ListTransactionsBetween(ctx context.Context, companyID string, from, to time.Time) ([]domain.Transaction, error) {
	path := fmt.Sprintf(
		"transactions?company_id=eq.%s&date=gte.%s&date=lt.%s&order=date.asc",
		companyID, queryTime(from), queryTime(to),
	)
	return getList[domain.Transaction](ctx, s, "ListTransactionsBetween", "transactions", path)
}

func (s *Store) SumTransactionsBefore(ctx context.Context, companyID string, before time.Time) (income, expense float64, err error) {
	path := fmt.Sprintf(
		"transactions?company_id=eq.%s&date=lt.%s&transaction_type=neq.transfer&select=transaction_type,total:amount.sum()",
		companyID, queryTime(before),
	)
	rows, err := getList[sumRow](ctx, s, "SumTransactionsBefore", "transactions", path)
	if err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		switch domain.TransactionType(r.TransactionType) {
		case domain.TransactionIncome:
			income = r.Total
		case domain.TransactionExpense:
			expense = r.Total
		}
	}
	return income, expense, nil
}
