// Package domain holds the ledger entities shared by services, stores and
// handlers. Every entity carries the company (tenant) that owns it; a
// reference that crosses companies is an invariant violation, not a
// permissions problem.
package domain

import (
	"fmt"
	"math"
	"time"
)

// FlowType is the direction of money for categories, plans and planned entries.
type FlowType string

const (
	FlowIncome  FlowType = "income"
	FlowExpense FlowType = "expense"
)

// ParseFlowType validates a wire value.
func ParseFlowType(v string) (FlowType, error) {
	switch FlowType(v) {
	case FlowIncome, FlowExpense:
		return FlowType(v), nil
	}
	return "", &ErrValidation{Field: "flow_type", Message: fmt.Sprintf("unknown value %q", v)}
}

// AccountType classifies an account.
type AccountType string

const (
	AccountBank       AccountType = "bank"
	AccountCash       AccountType = "cash"
	AccountCreditCard AccountType = "credit_card"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

func ParseAccountType(v string) (AccountType, error) {
	switch AccountType(v) {
	case AccountBank, AccountCash, AccountCreditCard, AccountInvestment, AccountOther:
		return AccountType(v), nil
	}
	return "", &ErrValidation{Field: "account_type", Message: fmt.Sprintf("unknown value %q", v)}
}

// TransactionType is the kind of a real money movement.
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

func ParseTransactionType(v string) (TransactionType, error) {
	switch TransactionType(v) {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return TransactionType(v), nil
	}
	return "", &ErrValidation{Field: "transaction_type", Message: fmt.Sprintf("unknown value %q", v)}
}

// ContactType classifies a contact.
type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactSupplier ContactType = "supplier"
	ContactService  ContactType = "service"
	ContactOther    ContactType = "other"
)

func ParseContactType(v string) (ContactType, error) {
	switch ContactType(v) {
	case ContactCustomer, ContactSupplier, ContactService, ContactOther:
		return ContactType(v), nil
	}
	return "", &ErrValidation{Field: "contact_type", Message: fmt.Sprintf("unknown value %q", v)}
}

// PlannedStatus is the coverage state of a planned entry. Cancelled is
// operator-only and sticky; the reconciler owns everything else.
type PlannedStatus string

const (
	StatusPlanned          PlannedStatus = "planned"
	StatusPartiallyCovered PlannedStatus = "partially_covered"
	StatusCovered          PlannedStatus = "covered"
	StatusOverdue          PlannedStatus = "overdue"
	StatusCancelled        PlannedStatus = "cancelled"
)

func ParsePlannedStatus(v string) (PlannedStatus, error) {
	switch PlannedStatus(v) {
	case StatusPlanned, StatusPartiallyCovered, StatusCovered, StatusOverdue, StatusCancelled:
		return PlannedStatus(v), nil
	}
	return "", &ErrValidation{Field: "status", Message: fmt.Sprintf("unknown value %q", v)}
}

// Account is a financial account (bank, cash, credit card, ...).
type Account struct {
	ID          string      `json:"id,omitempty"`
	CompanyID   string      `json:"company_id"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type"`
	Currency    string      `json:"currency"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

// Category labels income or expense flows. Parent references form a tree by
// convention only; no cycle guard is enforced on traversal-free paths.
type Category struct {
	ID        string     `json:"id,omitempty"`
	CompanyID string     `json:"company_id"`
	Name      string     `json:"name"`
	FlowType  FlowType   `json:"flow_type"`
	ParentID  *string    `json:"parent_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// Contact is a customer, supplier or service provider.
type Contact struct {
	ID          string      `json:"id,omitempty"`
	CompanyID   string      `json:"company_id"`
	Name        string      `json:"name"`
	ContactType ContactType `json:"contact_type"`
	Email       *string     `json:"email,omitempty"`
	Phone       *string     `json:"phone,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

// RecurringPlan is a rule for a periodic expected cash flow, e.g.
// "rent, monthly on the 1st, 20000". The version stamps generated entries so
// stale ones can be told apart after an edit.
type RecurringPlan struct {
	ID                string     `json:"id,omitempty"`
	CompanyID         string     `json:"company_id"`
	Name              string     `json:"name"`
	FlowType          FlowType   `json:"flow_type"`
	CategoryID        string     `json:"category_id"`
	AccountExpectedID string     `json:"account_expected_id"`
	ContactID         *string    `json:"contact_id,omitempty"`
	AmountEstimated   float64    `json:"amount_estimated"`
	Frequency         string     `json:"frequency"`
	DayOfMonth        *int       `json:"day_of_month,omitempty"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	IsActive          bool       `json:"is_active"`
	Version           int        `json:"version"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// PlannedEntry is one dated instance of an expected cash flow, generated from
// a plan (provenance pair set) or created by hand (provenance nil). The
// provenance is a weak reference: the plan may have moved to a higher version
// since, or have been deactivated entirely.
type PlannedEntry struct {
	ID                   string     `json:"id,omitempty"`
	CompanyID            string     `json:"company_id"`
	RecurringPlanID      *string    `json:"recurring_plan_id,omitempty"`
	RecurringPlanVersion *int       `json:"recurring_plan_version,omitempty"`
	Name                 string     `json:"name"`
	FlowType             FlowType   `json:"flow_type"`
	CategoryID           string     `json:"category_id"`
	AccountExpectedID    string     `json:"account_expected_id"`
	ContactID            *string    `json:"contact_id,omitempty"`
	AmountEstimated      float64    `json:"amount_estimated"`
	DueDate              time.Time  `json:"due_date"`
	Status               PlannedStatus `json:"status"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

// IsOpen reports whether the entry may still be replaced by plan
// regeneration. Covered, overdue and cancelled entries are audit history.
func (e *PlannedEntry) IsOpen() bool {
	return e.Status == StatusPlanned || e.Status == StatusPartiallyCovered
}

// Transaction is a real money movement. PlannedEntryID is a weak link used
// only for reconciliation lookups.
type Transaction struct {
	ID              string          `json:"id,omitempty"`
	CompanyID       string          `json:"company_id"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	TransactionType TransactionType `json:"transaction_type"`
	CategoryID      string          `json:"category_id"`
	AccountFromID   *string         `json:"account_from_id,omitempty"`
	AccountToID     *string         `json:"account_to_id,omitempty"`
	Amount          float64         `json:"amount"`
	PlannedEntryID  *string         `json:"planned_entry_id,omitempty"`
	IsConfirmed     bool            `json:"is_confirmed"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

// Forecast is a stored projection snapshot. Pure record, no derived state.
type Forecast struct {
	ID                    string     `json:"id,omitempty"`
	CompanyID             string     `json:"company_id"`
	GeneratedAt           time.Time  `json:"generated_at"`
	GeneratedByUserID     *string    `json:"generated_by_user_id,omitempty"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               time.Time  `json:"end_date"`
	Currency              string     `json:"currency"`
	ProjectedIncomeTotal  float64    `json:"projected_income_total"`
	ProjectedExpenseTotal float64    `json:"projected_expense_total"`
	ProjectedNet          float64    `json:"projected_net"`
	InitialBalance        *float64   `json:"initial_balance,omitempty"`
	FinalBalance          *float64   `json:"final_balance,omitempty"`
	Details               *string    `json:"details,omitempty"`
	ScenarioName          *string    `json:"scenario_name,omitempty"`
	Notes                 *string    `json:"notes,omitempty"`
}

// PlanSignificantlyChanged reports whether a plan edit touched a field that
// invalidates already-generated entries. This is the single source of truth
// for both the version bump and the regeneration trigger. Name and notes are
// deliberately not in the set: a rename alone does not bump the version.
func PlanSignificantlyChanged(old, updated *RecurringPlan) bool {
	return old.FlowType != updated.FlowType ||
		old.CategoryID != updated.CategoryID ||
		old.AccountExpectedID != updated.AccountExpectedID ||
		!strPtrEqual(old.ContactID, updated.ContactID) ||
		math.Abs(old.AmountEstimated-updated.AmountEstimated) > 1e-9 ||
		old.Frequency != updated.Frequency ||
		!intPtrEqual(old.DayOfMonth, updated.DayOfMonth) ||
		!old.StartDate.Equal(updated.StartDate) ||
		!timePtrEqual(old.EndDate, updated.EndDate) ||
		old.IsActive != updated.IsActive
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
