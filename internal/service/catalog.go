package service

import (
	"context"

	"github.com/ledgerplan/ledgerd/internal/domain"

	"github.com/google/uuid"
)

// Accounts

func (l *Ledger) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return l.store.ListAccounts(ctx, companyID)
}

func (l *Ledger) GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error) {
	account, err := l.store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, notFound("account", id)
	}
	return account, nil
}

func (l *Ledger) CreateAccount(ctx context.Context, companyID string, account *domain.Account) (*domain.Account, error) {
	if account.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if account.Currency == "" {
		return nil, &domain.ErrValidation{Field: "currency", Message: "must not be empty"}
	}
	now := l.now().UTC()
	account.ID = uuid.NewString()
	account.CompanyID = companyID
	account.CreatedAt = &now
	account.UpdatedAt = &now
	if err := l.store.InsertAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (l *Ledger) UpdateAccount(ctx context.Context, companyID, id string, account *domain.Account) (*domain.Account, error) {
	existing, err := l.GetAccount(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if account.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	now := l.now().UTC()
	account.ID = id
	account.CompanyID = companyID
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = &now
	if err := l.store.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount refuses to remove an account that is still referenced by a
// transaction, plan or planned entry.
func (l *Ledger) DeleteAccount(ctx context.Context, companyID, id string) error {
	if _, err := l.GetAccount(ctx, companyID, id); err != nil {
		return err
	}
	used, err := l.store.AccountInUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return &domain.ErrConflict{Resource: "account", Reason: "still referenced by transactions or plans"}
	}
	return l.store.DeleteAccount(ctx, id)
}

// Categories

func (l *Ledger) ListCategories(ctx context.Context, companyID string) ([]domain.Category, error) {
	return l.store.ListCategories(ctx, companyID)
}

func (l *Ledger) GetCategory(ctx context.Context, companyID, id string) (*domain.Category, error) {
	category, err := l.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.CompanyID != companyID {
		return nil, notFound("category", id)
	}
	return category, nil
}

func (l *Ledger) CreateCategory(ctx context.Context, companyID string, category *domain.Category) (*domain.Category, error) {
	if category.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if err := l.checkParentCategory(ctx, companyID, category.ParentID); err != nil {
		return nil, err
	}
	now := l.now().UTC()
	category.ID = uuid.NewString()
	category.CompanyID = companyID
	category.CreatedAt = &now
	category.UpdatedAt = &now
	if err := l.store.InsertCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (l *Ledger) UpdateCategory(ctx context.Context, companyID, id string, category *domain.Category) (*domain.Category, error) {
	existing, err := l.GetCategory(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if category.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if category.ParentID != nil && *category.ParentID == id {
		return nil, &domain.ErrValidation{Field: "parent_id", Message: "category cannot be its own parent"}
	}
	if err := l.checkParentCategory(ctx, companyID, category.ParentID); err != nil {
		return nil, err
	}
	now := l.now().UTC()
	category.ID = id
	category.CompanyID = companyID
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = &now
	if err := l.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (l *Ledger) DeleteCategory(ctx context.Context, companyID, id string) error {
	if _, err := l.GetCategory(ctx, companyID, id); err != nil {
		return err
	}
	return l.store.DeleteCategory(ctx, id)
}

func (l *Ledger) checkParentCategory(ctx context.Context, companyID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	parent, err := l.store.GetCategory(ctx, *parentID)
	if err != nil {
		if isNotFound(err) {
			return &domain.ErrValidation{Field: "parent_id", Message: "parent category does not exist"}
		}
		return err
	}
	if parent.CompanyID != companyID {
		return &domain.ErrValidation{Field: "parent_id", Message: "parent category does not exist"}
	}
	return nil
}

// Contacts

func (l *Ledger) ListContacts(ctx context.Context, companyID string) ([]domain.Contact, error) {
	return l.store.ListContacts(ctx, companyID)
}

func (l *Ledger) GetContact(ctx context.Context, companyID, id string) (*domain.Contact, error) {
	contact, err := l.store.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.CompanyID != companyID {
		return nil, notFound("contact", id)
	}
	return contact, nil
}

func (l *Ledger) CreateContact(ctx context.Context, companyID string, contact *domain.Contact) (*domain.Contact, error) {
	if contact.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	now := l.now().UTC()
	contact.ID = uuid.NewString()
	contact.CompanyID = companyID
	contact.CreatedAt = &now
	contact.UpdatedAt = &now
	if err := l.store.InsertContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (l *Ledger) UpdateContact(ctx context.Context, companyID, id string, contact *domain.Contact) (*domain.Contact, error) {
	existing, err := l.GetContact(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if contact.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	now := l.now().UTC()
	contact.ID = id
	contact.CompanyID = companyID
	contact.CreatedAt = existing.CreatedAt
	contact.UpdatedAt = &now
	if err := l.store.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (l *Ledger) DeleteContact(ctx context.Context, companyID, id string) error {
	if _, err := l.GetContact(ctx, companyID, id); err != nil {
		return err
	}
	return l.store.DeleteContact(ctx, id)
}
