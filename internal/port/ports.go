// Package port defines the interfaces for external dependencies. Services
// depend on these ports, never on the PostgREST adapter directly.
package port

import (
	"context"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

// LedgerStore is the tenant-scoped document store for all ledger entities.
//
// List* and window queries are scoped by company id. Get* fetches by id
// alone and returns whatever tenant owns the record: callers compare the
// company themselves, so the CRUD layer can answer "not found" while the
// transaction validator answers "cross-tenant reference".
//
// Implementations must apply a per-call timeout; none of these calls may
// block indefinitely.
type LedgerStore interface {
	// Accounts
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	InsertAccount(ctx context.Context, account *domain.Account) error
	UpdateAccount(ctx context.Context, account *domain.Account) error
	DeleteAccount(ctx context.Context, id string) error
	// AccountInUse reports whether any transaction, recurring plan or
	// planned entry still references the account.
	AccountInUse(ctx context.Context, accountID string) (bool, error)

	// Categories
	ListCategories(ctx context.Context, companyID string) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	InsertCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Contacts
	ListContacts(ctx context.Context, companyID string) ([]domain.Contact, error)
	GetContact(ctx context.Context, id string) (*domain.Contact, error)
	InsertContact(ctx context.Context, contact *domain.Contact) error
	UpdateContact(ctx context.Context, contact *domain.Contact) error
	DeleteContact(ctx context.Context, id string) error

	// Recurring plans. Plans are never hard-deleted: deactivation stamps
	// end_date and flips is_active via UpdateRecurringPlan.
	ListRecurringPlans(ctx context.Context, companyID string) ([]domain.RecurringPlan, error)
	GetRecurringPlan(ctx context.Context, id string) (*domain.RecurringPlan, error)
	InsertRecurringPlan(ctx context.Context, plan *domain.RecurringPlan) error
	UpdateRecurringPlan(ctx context.Context, plan *domain.RecurringPlan) error

	// Planned entries
	ListPlannedEntries(ctx context.Context, companyID string) ([]domain.PlannedEntry, error)
	GetPlannedEntry(ctx context.Context, id string) (*domain.PlannedEntry, error)
	InsertPlannedEntry(ctx context.Context, entry *domain.PlannedEntry) error
	UpdatePlannedEntry(ctx context.Context, entry *domain.PlannedEntry) error
	DeletePlannedEntry(ctx context.Context, id string) error
	UpdatePlannedEntryStatus(ctx context.Context, id string, status domain.PlannedStatus, updatedAt time.Time) error
	// DeleteOpenEntriesFrom removes the plan's entries that are still open
	// (planned or partially covered) and due at or after the cutoff. Covered,
	// cancelled and past entries are audit history and are never touched.
	DeleteOpenEntriesFrom(ctx context.Context, planID string, cutoff time.Time) error
	// ListEntriesDueBetween returns non-cancelled entries with
	// due_date in [from, to), tenant-scoped.
	ListEntriesDueBetween(ctx context.Context, companyID string, from, to time.Time) ([]domain.PlannedEntry, error)
	// SumPlannedBefore sums non-cancelled estimated amounts with
	// due_date < before, grouped by flow type.
	SumPlannedBefore(ctx context.Context, companyID string, before time.Time) (income, expense float64, err error)

	// Transactions
	ListTransactions(ctx context.Context, companyID string) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error
	UpdateTransaction(ctx context.Context, tx *domain.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactionsByPlannedEntry(ctx context.Context, plannedEntryID string) ([]domain.Transaction, error)
	// ListTransactionsBetween returns transactions with date in [from, to),
	// tenant-scoped.
	ListTransactionsBetween(ctx context.Context, companyID string, from, to time.Time) ([]domain.Transaction, error)
	// SumTransactionsBefore sums amounts with date < before, grouped by
	// transaction type. Transfers are ignored.
	SumTransactionsBefore(ctx context.Context, companyID string, before time.Time) (income, expense float64, err error)

	// Forecasts
	ListForecasts(ctx context.Context, companyID string) ([]domain.Forecast, error)
	GetForecast(ctx context.Context, id string) (*domain.Forecast, error)
	InsertForecast(ctx context.Context, forecast *domain.Forecast) error
	UpdateForecast(ctx context.Context, forecast *domain.Forecast) error
	DeleteForecast(ctx context.Context, id string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
