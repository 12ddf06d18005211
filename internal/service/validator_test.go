package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/port/porttest"
	"github.com/ledgerplan/ledgerd/internal/service"
)

func seedRefs(store *porttest.Store) {
	store.Accounts["acc-from"] = domain.Account{
		ID: "acc-from", CompanyID: "co-1", Name: "Checking",
		AccountType: domain.AccountBank, Currency: "EUR", IsActive: true,
	}
	store.Accounts["acc-to"] = domain.Account{
		ID: "acc-to", CompanyID: "co-1", Name: "Savings",
		AccountType: domain.AccountBank, Currency: "EUR", IsActive: true,
	}
	store.Accounts["acc-inactive"] = domain.Account{
		ID: "acc-inactive", CompanyID: "co-1", Name: "Closed",
		AccountType: domain.AccountBank, Currency: "EUR", IsActive: false,
	}
	store.Accounts["acc-foreign"] = domain.Account{
		ID: "acc-foreign", CompanyID: "co-2", Name: "Other tenant",
		AccountType: domain.AccountBank, Currency: "EUR", IsActive: true,
	}
	store.Categories["cat-exp"] = domain.Category{
		ID: "cat-exp", CompanyID: "co-1", Name: "Rent", FlowType: domain.FlowExpense,
	}
	store.Categories["cat-inc"] = domain.Category{
		ID: "cat-inc", CompanyID: "co-1", Name: "Sales", FlowType: domain.FlowIncome,
	}
}

func strPtr(s string) *string { return &s }

func expenseTx(from string) *domain.Transaction {
	return &domain.Transaction{
		CompanyID: "co-1", Date: time.Now().UTC(), Description: "rent",
		TransactionType: domain.TransactionExpense, CategoryID: "cat-exp",
		AccountFromID: strPtr(from), Amount: 100,
	}
}

func wantValidation(t *testing.T, err error, field string) {
	t.Helper()
	var v *domain.ErrValidation
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if v.Field != field {
		t.Errorf("expected field %q, got %q (%s)", field, v.Field, v.Message)
	}
}

func TestValidateTransaction_AccountShape(t *testing.T) {
	store := porttest.NewStore()
	seedRefs(store)
	v := service.NewValidator(store)
	ctx := context.Background()

	// Valid expense.
	if err := v.ValidateTransaction(ctx, expenseTx("acc-from")); err != nil {
		t.Errorf("valid expense rejected: %v", err)
	}

	// Expense must not carry a destination.
	tx := expenseTx("acc-from")
	tx.AccountToID = strPtr("acc-to")
	wantValidation(t, v.ValidateTransaction(ctx, tx), "account_to_id")

	// Income is the mirror image.
	income := &domain.Transaction{
		CompanyID: "co-1", TransactionType: domain.TransactionIncome,
		CategoryID: "cat-inc", AccountToID: strPtr("acc-to"), Amount: 50,
	}
	if err := v.ValidateTransaction(ctx, income); err != nil {
		t.Errorf("valid income rejected: %v", err)
	}
	income.AccountFromID = strPtr("acc-from")
	wantValidation(t, v.ValidateTransaction(ctx, income), "account_from_id")

	// Transfer needs both sides, distinct.
	transfer := &domain.Transaction{
		CompanyID: "co-1", TransactionType: domain.TransactionTransfer,
		CategoryID: "cat-exp", AccountFromID: strPtr("acc-from"),
		AccountToID: strPtr("acc-to"), Amount: 30,
	}
	if err := v.ValidateTransaction(ctx, transfer); err != nil {
		t.Errorf("valid transfer rejected: %v", err)
	}
	transfer.AccountToID = strPtr("acc-from")
	wantValidation(t, v.ValidateTransaction(ctx, transfer), "account_to_id")

	halfTransfer := &domain.Transaction{
		CompanyID: "co-1", TransactionType: domain.TransactionTransfer,
		CategoryID: "cat-exp", AccountFromID: strPtr("acc-from"), Amount: 30,
	}
	wantValidation(t, v.ValidateTransaction(ctx, halfTransfer), "account_from_id")
}

func TestValidateTransaction_RejectsInactiveAndForeignAccounts(t *testing.T) {
	store := porttest.NewStore()
	seedRefs(store)
	v := service.NewValidator(store)
	ctx := context.Background()

	wantValidation(t, v.ValidateTransaction(ctx, expenseTx("acc-inactive")), "account_from_id")

	// A cross-tenant account is a validation failure, indistinguishable
	// from a nonexistent one.
	wantValidation(t, v.ValidateTransaction(ctx, expenseTx("acc-foreign")), "account_from_id")

	wantValidation(t, v.ValidateTransaction(ctx, expenseTx("acc-nope")), "account_from_id")
}

func TestValidateTransaction_CategoryFlowMustMatch(t *testing.T) {
	store := porttest.NewStore()
	seedRefs(store)
	v := service.NewValidator(store)
	ctx := context.Background()

	tx := expenseTx("acc-from")
	tx.CategoryID = "cat-inc"
	wantValidation(t, v.ValidateTransaction(ctx, tx), "category_id")

	// Transfers are exempt from the flow check.
	transfer := &domain.Transaction{
		CompanyID: "co-1", TransactionType: domain.TransactionTransfer,
		CategoryID: "cat-inc", AccountFromID: strPtr("acc-from"),
		AccountToID: strPtr("acc-to"), Amount: 30,
	}
	if err := v.ValidateTransaction(ctx, transfer); err != nil {
		t.Errorf("transfer must skip flow check: %v", err)
	}
}

func TestValidateTransaction_PlannedEntryLink(t *testing.T) {
	store := porttest.NewStore()
	seedRefs(store)
	store.Entries["e-exp"] = domain.PlannedEntry{
		ID: "e-exp", CompanyID: "co-1", Name: "Rent July", FlowType: domain.FlowExpense,
		CategoryID: "cat-exp", AccountExpectedID: "acc-from", AmountEstimated: 100,
		DueDate: time.Now().UTC(), Status: domain.StatusPlanned,
	}
	store.Entries["e-cancelled"] = domain.PlannedEntry{
		ID: "e-cancelled", CompanyID: "co-1", Name: "Dead", FlowType: domain.FlowExpense,
		CategoryID: "cat-exp", AccountExpectedID: "acc-from", AmountEstimated: 100,
		DueDate: time.Now().UTC(), Status: domain.StatusCancelled,
	}
	store.Entries["e-foreign"] = domain.PlannedEntry{
		ID: "e-foreign", CompanyID: "co-2", Name: "Foreign", FlowType: domain.FlowExpense,
		CategoryID: "cat-exp", AccountExpectedID: "acc-from", AmountEstimated: 100,
		DueDate: time.Now().UTC(), Status: domain.StatusPlanned,
	}
	store.Entries["e-inc"] = domain.PlannedEntry{
		ID: "e-inc", CompanyID: "co-1", Name: "Invoice", FlowType: domain.FlowIncome,
		CategoryID: "cat-inc", AccountExpectedID: "acc-to", AmountEstimated: 100,
		DueDate: time.Now().UTC(), Status: domain.StatusPlanned,
	}
	v := service.NewValidator(store)
	ctx := context.Background()

	tx := expenseTx("acc-from")
	tx.PlannedEntryID = strPtr("e-exp")
	if err := v.ValidateTransaction(ctx, tx); err != nil {
		t.Errorf("valid link rejected: %v", err)
	}

	tx.PlannedEntryID = strPtr("e-cancelled")
	wantValidation(t, v.ValidateTransaction(ctx, tx), "planned_entry_id")

	tx.PlannedEntryID = strPtr("e-foreign")
	wantValidation(t, v.ValidateTransaction(ctx, tx), "planned_entry_id")

	// Flow mismatch: expense transaction covering an income entry.
	tx.PlannedEntryID = strPtr("e-inc")
	wantValidation(t, v.ValidateTransaction(ctx, tx), "planned_entry_id")
}

func TestValidateTransaction_NegativeCorrectionAccepted(t *testing.T) {
	store := porttest.NewStore()
	seedRefs(store)
	v := service.NewValidator(store)

	// A negative amount is a correction entry, not a validation failure;
	// the reconciler relies on it to walk coverage back down.
	tx := expenseTx("acc-from")
	tx.Amount = -50
	if err := v.ValidateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("negative correction must validate, got %v", err)
	}
}
