package handler

import (
	"net/http"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Forecasts
// ============================================================

func listForecastsHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/forecasts")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		forecasts, err := svc.ListForecasts(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, forecasts)
	}
}

func getForecastHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/forecasts/{forecastID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "forecastID")
		if !ok {
			writeError(w, http.StatusBadRequest, "forecast id must be a valid UUID")
			return
		}
		forecast, err := svc.GetForecast(ctx, companyID, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, forecast)
	}
}

func createForecastHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/forecasts")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		var forecast domain.Forecast
		if !decodeBody(w, r, &forecast) {
			return
		}
		created, err := svc.CreateForecast(ctx, companyID, &forecast)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateForecastHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/companies/{companyID}/forecasts/{forecastID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "forecastID")
		if !ok {
			writeError(w, http.StatusBadRequest, "forecast id must be a valid UUID")
			return
		}
		var forecast domain.Forecast
		if !decodeBody(w, r, &forecast) {
			return
		}
		updated, err := svc.UpdateForecast(ctx, companyID, id, &forecast)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteForecastHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/companies/{companyID}/forecasts/{forecastID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "forecastID")
		if !ok {
			writeError(w, http.StatusBadRequest, "forecast id must be a valid UUID")
			return
		}
		if err := svc.DeleteForecast(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
