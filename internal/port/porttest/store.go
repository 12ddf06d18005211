// Package porttest provides an in-memory LedgerStore for tests.
package porttest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

// Store is an in-memory port.LedgerStore. Zero value is not usable; create
// with NewStore. Set Err to make every call fail with that error.
type Store struct {
	mu sync.Mutex

	Err error

	Accounts  map[string]domain.Account
	Categories map[string]domain.Category
	Contacts  map[string]domain.Contact
	Plans     map[string]domain.RecurringPlan
	Entries   map[string]domain.PlannedEntry
	Txs       map[string]domain.Transaction
	Forecasts map[string]domain.Forecast
}

func NewStore() *Store {
	return &Store{
		Accounts:  make(map[string]domain.Account),
		Categories: make(map[string]domain.Category),
		Contacts:  make(map[string]domain.Contact),
		Plans:     make(map[string]domain.RecurringPlan),
		Entries:   make(map[string]domain.PlannedEntry),
		Txs:       make(map[string]domain.Transaction),
		Forecasts: make(map[string]domain.Forecast),
	}
}

// --- Accounts ---

func (s *Store) ListAccounts(_ context.Context, companyID string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.Account
	for _, a := range s.Accounts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.Accounts[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "account", ID: id}
	}
	return &a, nil
}

func (s *Store) InsertAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Accounts[account.ID] = *account
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account *domain.Account) error {
	return s.InsertAccount(nil, account)
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Accounts, id)
	return nil
}

func (s *Store) AccountInUse(_ context.Context, accountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, tx := range s.Txs {
		if (tx.AccountFromID != nil && *tx.AccountFromID == accountID) ||
			(tx.AccountToID != nil && *tx.AccountToID == accountID) {
			return true, nil
		}
	}
	for _, p := range s.Plans {
		if p.AccountExpectedID == accountID {
			return true, nil
		}
	}
	for _, e := range s.Entries {
		if e.AccountExpectedID == accountID {
			return true, nil
		}
	}
	return false, nil
}

// --- Categories ---

func (s *Store) ListCategories(_ context.Context, companyID string) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.Category
	for _, c := range s.Categories {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Categories[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "category", ID: id}
	}
	return &c, nil
}

func (s *Store) InsertCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Categories[category.ID] = *category
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	return s.InsertCategory(ctx, category)
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Categories, id)
	return nil
}

// --- Contacts ---

func (s *Store) ListContacts(_ context.Context, companyID string) ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.Contact
	for _, c := range s.Contacts {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) GetContact(_ context.Context, id string) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Contacts[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "contact", ID: id}
	}
	return &c, nil
}

func (s *Store) InsertContact(_ context.Context, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Contacts[contact.ID] = *contact
	return nil
}

func (s *Store) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	return s.InsertContact(ctx, contact)
}

func (s *Store) DeleteContact(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Contacts, id)
	return nil
}

// --- Recurring plans ---

func (s *Store) ListRecurringPlans(_ context.Context, companyID string) ([]domain.RecurringPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.RecurringPlan
	for _, p := range s.Plans {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetRecurringPlan(_ context.Context, id string) (*domain.RecurringPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Plans[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "recurring_plan", ID: id}
	}
	return &p, nil
}

func (s *Store) InsertRecurringPlan(_ context.Context, plan *domain.RecurringPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Plans[plan.ID] = *plan
	return nil
}

func (s *Store) UpdateRecurringPlan(ctx context.Context, plan *domain.RecurringPlan) error {
	return s.InsertRecurringPlan(ctx, plan)
}

// --- Planned entries ---

func (s *Store) ListPlannedEntries(_ context.Context, companyID string) ([]domain.PlannedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.PlannedEntry
	for _, e := range s.Entries {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) GetPlannedEntry(_ context.Context, id string) (*domain.PlannedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.Entries[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "planned_entry", ID: id}
	}
	return &e, nil
}

func (s *Store) InsertPlannedEntry(_ context.Context, entry *domain.PlannedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Entries[entry.ID] = *entry
	return nil
}

func (s *Store) UpdatePlannedEntry(ctx context.Context, entry *domain.PlannedEntry) error {
	return s.InsertPlannedEntry(ctx, entry)
}

func (s *Store) DeletePlannedEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Entries, id)
	return nil
}

func (s *Store) UpdatePlannedEntryStatus(_ context.Context, id string, status domain.PlannedStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	e, ok := s.Entries[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "planned_entry", ID: id}
	}
	e.Status = status
	e.UpdatedAt = &updatedAt
	s.Entries[id] = e
	return nil
}

func (s *Store) DeleteOpenEntriesFrom(_ context.Context, planID string, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for id, e := range s.Entries {
		if e.RecurringPlanID == nil || *e.RecurringPlanID != planID {
			continue
		}
		if !e.IsOpen() {
			continue
		}
		if e.DueDate.Before(cutoff) {
			continue
		}
		delete(s.Entries, id)
	}
	return nil
}

func (s *Store) ListEntriesDueBetween(_ context.Context, companyID string, from, to time.Time) ([]domain.PlannedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.PlannedEntry
	for _, e := range s.Entries {
		if e.CompanyID != companyID || e.Status == domain.StatusCancelled {
			continue
		}
		if e.DueDate.Before(from) || !e.DueDate.Before(to) {
			continue
		}
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) SumPlannedBefore(_ context.Context, companyID string, before time.Time) (income, expense float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, 0, s.Err
	}
	for _, e := range s.Entries {
		if e.CompanyID != companyID || e.Status == domain.StatusCancelled || !e.DueDate.Before(before) {
			continue
		}
		switch e.FlowType {
		case domain.FlowIncome:
			income += e.AmountEstimated
		case domain.FlowExpense:
			expense += e.AmountEstimated
		}
	}
	return income, expense, nil
}

// --- Transactions ---

func (s *Store) ListTransactions(_ context.Context, companyID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.Transaction
	for _, tx := range s.Txs {
		if tx.CompanyID == companyID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	tx, ok := s.Txs[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	return &tx, nil
}

func (s *Store) InsertTransaction(_ context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Txs[tx.ID] = *tx
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *domain.Transaction) error {
	return s.InsertTransaction(ctx, tx)
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Txs, id)
	return nil
}

func (s *Store) ListTransactionsByPlannedEntry(_ context.Context, plannedEntryID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.Transaction
	for _, tx := range s.Txs {
		if tx.PlannedEntryID != nil && *tx.PlannedEntryID == plannedEntryID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) ListTransactionsBetween(_ context.Context, companyID string, from, to time.Time) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.Transaction
	for _, tx := range s.Txs {
		if tx.CompanyID != companyID {
			continue
		}
		if tx.Date.Before(from) || !tx.Date.Before(to) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) SumTransactionsBefore(_ context.Context, companyID string, before time.Time) (income, expense float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, 0, s.Err
	}
	for _, tx := range s.Txs {
		if tx.CompanyID != companyID || !tx.Date.Before(before) {
			continue
		}
		switch tx.TransactionType {
		case domain.TransactionIncome:
			income += tx.Amount
		case domain.TransactionExpense:
			expense += tx.Amount
		}
	}
	return income, expense, nil
}

// --- Forecasts ---

func (s *Store) ListForecasts(_ context.Context, companyID string) ([]domain.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []domain.Forecast
	for _, f := range s.Forecasts {
		if f.CompanyID == companyID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *Store) GetForecast(_ context.Context, id string) (*domain.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	f, ok := s.Forecasts[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "forecast", ID: id}
	}
	return &f, nil
}

func (s *Store) InsertForecast(_ context.Context, forecast *domain.Forecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Forecasts[forecast.ID] = *forecast
	return nil
}

func (s *Store) UpdateForecast(ctx context.Context, forecast *domain.Forecast) error {
	return s.InsertForecast(ctx, forecast)
}

func (s *Store) DeleteForecast(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Forecasts, id)
	return nil
}

// PlanEntries returns the stored entries generated from the given plan,
// sorted by due date.
func (s *Store) PlanEntries(planID string) []domain.PlannedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PlannedEntry
	for _, e := range s.Entries {
		if e.RecurringPlanID != nil && *e.RecurringPlanID == planID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

func sortEntries(entries []domain.PlannedEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].DueDate.Before(entries[j].DueDate) })
}
