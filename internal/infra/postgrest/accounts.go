package postgrest

import (
	"context"
	"fmt"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

func (s *Store) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	path := fmt.Sprintf("accounts?company_id=eq.%s&order=name.asc", companyID)
	return getList[domain.Account](ctx, s, "ListAccounts", "accounts", path)
}

func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return getOne[domain.Account](ctx, s, "GetAccount", "accounts", id)
}

func (s *Store) InsertAccount(ctx context.Context, account *domain.Account) error {
	return insertOne(ctx, s, "InsertAccount", "accounts", account)
}

func (s *Store) UpdateAccount(ctx context.Context, account *domain.Account) error {
	return updateByID(ctx, s, "UpdateAccount", "accounts", account.ID, account)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return deleteByPath(ctx, s, "DeleteAccount", "accounts", fmt.Sprintf("accounts?id=eq.%s", id))
}

// AccountInUse checks transactions (either side), recurring plans and
// planned entries for a reference to the account.
func (s *Store) AccountInUse(ctx context.Context, accountID string) (bool, error) {
	txPath := fmt.Sprintf("transactions?or=(account_from_id.eq.%s,account_to_id.eq.%s)&select=id&limit=1", accountID, accountID)
	used, err := existsAny(ctx, s, "AccountInUse", "transactions", txPath)
	if err != nil || used {
		return used, err
	}

	planPath := fmt.Sprintf("recurring_plans?account_expected_id=eq.%s&select=id&limit=1", accountID)
	used, err = existsAny(ctx, s, "AccountInUse", "recurring_plans", planPath)
	if err != nil || used {
		return used, err
	}

	entryPath := fmt.Sprintf("planned_entries?account_expected_id=eq.%s&select=id&limit=1", accountID)
	return existsAny(ctx, s, "AccountInUse", "planned_entries", entryPath)
}
