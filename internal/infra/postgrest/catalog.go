package postgrest

import (
	"context"
	"fmt"

	"github.com/ledgerplan/ledgerd/internal/domain"
)

// Categories

func (s *Store) ListCategories(ctx context.Context, companyID string) ([]domain.Category, error) {
	path := fmt.Sprintf("categories?company_id=eq.%s&order=name.asc", companyID)
	return getList[domain.Category](ctx, s, "ListCategories", "categories", path)
}

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return getOne[domain.Category](ctx, s, "GetCategory", "categories", id)
}

func (s *Store) InsertCategory(ctx context.Context, category *domain.Category) error {
	return insertOne(ctx, s, "InsertCategory", "categories", category)
}

func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	return updateByID(ctx, s, "UpdateCategory", "categories", category.ID, category)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return deleteByPath(ctx, s, "DeleteCategory", "categories", fmt.Sprintf("categories?id=eq.%s", id))
}

// Contacts

func (s *Store) ListContacts(ctx context.Context, companyID string) ([]domain.Contact, error) {
	path := fmt.Sprintf("contacts?company_id=eq.%s&order=name.asc", companyID)
	return getList[domain.Contact](ctx, s, "ListContacts", "contacts", path)
}

func (s *Store) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	return getOne[domain.Contact](ctx, s, "GetContact", "contacts", id)
}

func (s *Store) InsertContact(ctx context.Context, contact *domain.Contact) error {
	return insertOne(ctx, s, "InsertContact", "contacts", contact)
}

func (s *Store) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	return updateByID(ctx, s, "UpdateContact", "contacts", contact.ID, contact)
}

func (s *Store) DeleteContact(ctx context.Context, id string) error {
	return deleteByPath(ctx, s, "DeleteContact", "contacts", fmt.Sprintf("contacts?id=eq.%s", id))
}

// Forecasts

func (s *Store) ListForecasts(ctx context.Context, companyID string) ([]domain.Forecast, error) {
	path := fmt.Sprintf("forecasts?company_id=eq.%s&order=generated_at.desc", companyID)
	return getList[domain.Forecast](ctx, s, "ListForecasts", "forecasts", path)
}

func (s *Store) GetForecast(ctx context.Context, id string) (*domain.Forecast, error) {
	return getOne[domain.Forecast](ctx, s, "GetForecast", "forecasts", id)
}

func (s *Store) InsertForecast(ctx context.Context, forecast *domain.Forecast) error {
	return insertOne(ctx, s, "InsertForecast", "forecasts", forecast)
}

func (s *Store) UpdateForecast(ctx context.Context, forecast *domain.Forecast) error {
	return updateByID(ctx, s, "UpdateForecast", "forecasts", forecast.ID, forecast)
}

func (s *Store) DeleteForecast(ctx context.Context, id string) error {
	return deleteByPath(ctx, s, "DeleteForecast", "forecasts", fmt.Sprintf("forecasts?id=eq.%s", id))
}
