package service

import (
	"context"

	"github.com/ledgerplan/ledgerd/internal/domain"

	"github.com/google/uuid"
)

// Forecasts are snapshots: stored as handed in, no derived state.

func (l *Ledger) ListForecasts(ctx context.Context, companyID string) ([]domain.Forecast, error) {
	return l.store.ListForecasts(ctx, companyID)
}

func (l *Ledger) GetForecast(ctx context.Context, companyID, id string) (*domain.Forecast, error) {
	forecast, err := l.store.GetForecast(ctx, id)
	if err != nil {
		return nil, err
	}
	if forecast.CompanyID != companyID {
		return nil, notFound("forecast", id)
	}
	return forecast, nil
}

func (l *Ledger) CreateForecast(ctx context.Context, companyID string, forecast *domain.Forecast) (*domain.Forecast, error) {
	if forecast.Currency == "" {
		return nil, &domain.ErrValidation{Field: "currency", Message: "must not be empty"}
	}
	if forecast.EndDate.Before(forecast.StartDate) {
		return nil, &domain.ErrValidation{Field: "end_date", Message: "must not precede start_date"}
	}
	forecast.ID = uuid.NewString()
	forecast.CompanyID = companyID
	if forecast.GeneratedAt.IsZero() {
		forecast.GeneratedAt = l.now().UTC()
	}
	if err := l.store.InsertForecast(ctx, forecast); err != nil {
		return nil, err
	}
	return forecast, nil
}

func (l *Ledger) UpdateForecast(ctx context.Context, companyID, id string, forecast *domain.Forecast) (*domain.Forecast, error) {
	existing, err := l.GetForecast(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if forecast.EndDate.Before(forecast.StartDate) {
		return nil, &domain.ErrValidation{Field: "end_date", Message: "must not precede start_date"}
	}
	forecast.ID = id
	forecast.CompanyID = companyID
	if forecast.GeneratedAt.IsZero() {
		forecast.GeneratedAt = existing.GeneratedAt
	}
	if err := l.store.UpdateForecast(ctx, forecast); err != nil {
		return nil, err
	}
	return forecast, nil
}

func (l *Ledger) DeleteForecast(ctx context.Context, companyID, id string) error {
	if _, err := l.GetForecast(ctx, companyID, id); err != nil {
		return err
	}
	return l.store.DeleteForecast(ctx, id)
}
