package handler

import (
	"net/http"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Planned entries
// ============================================================

func listEntriesHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/planned-entries")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		entries, err := svc.ListPlannedEntries(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func getEntryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/planned-entries/{entryID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "entryID")
		if !ok {
			writeError(w, http.StatusBadRequest, "entry id must be a valid UUID")
			return
		}
		entry, err := svc.GetPlannedEntry(ctx, companyID, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func createEntryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/planned-entries")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		var entry domain.PlannedEntry
		if !decodeBody(w, r, &entry) {
			return
		}
		if _, err := domain.ParseFlowType(string(entry.FlowType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		created, err := svc.CreatePlannedEntry(ctx, companyID, &entry)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateEntryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/companies/{companyID}/planned-entries/{entryID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "entryID")
		if !ok {
			writeError(w, http.StatusBadRequest, "entry id must be a valid UUID")
			return
		}
		var entry domain.PlannedEntry
		if !decodeBody(w, r, &entry) {
			return
		}
		if _, err := domain.ParseFlowType(string(entry.FlowType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if _, err := domain.ParsePlannedStatus(string(entry.Status)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		updated, err := svc.UpdatePlannedEntry(ctx, companyID, id, &entry)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteEntryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/companies/{companyID}/planned-entries/{entryID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "entryID")
		if !ok {
			writeError(w, http.StatusBadRequest, "entry id must be a valid UUID")
			return
		}
		if err := svc.DeletePlannedEntry(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
