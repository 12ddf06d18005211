package handler

import (
	"net/http"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Recurring plans
// ============================================================

func listPlansHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/recurring-plans")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		plans, err := svc.ListRecurringPlans(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, plans)
	}
}

func getPlanHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/recurring-plans/{planID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "planID")
		if !ok {
			writeError(w, http.StatusBadRequest, "plan id must be a valid UUID")
			return
		}
		plan, err := svc.GetRecurringPlan(ctx, companyID, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func createPlanHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/recurring-plans")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		var plan domain.RecurringPlan
		if !decodeBody(w, r, &plan) {
			return
		}
		if _, err := domain.ParseFlowType(string(plan.FlowType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		created, err := svc.CreateRecurringPlan(ctx, companyID, &plan)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("plan.id", created.ID))
		writeJSON(w, http.StatusCreated, created)
	}
}

func updatePlanHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/companies/{companyID}/recurring-plans/{planID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "planID")
		if !ok {
			writeError(w, http.StatusBadRequest, "plan id must be a valid UUID")
			return
		}
		var plan domain.RecurringPlan
		if !decodeBody(w, r, &plan) {
			return
		}
		if _, err := domain.ParseFlowType(string(plan.FlowType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		updated, err := svc.UpdateRecurringPlan(ctx, companyID, id, &plan)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deactivatePlanHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/companies/{companyID}/recurring-plans/{planID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "planID")
		if !ok {
			writeError(w, http.StatusBadRequest, "plan id must be a valid UUID")
			return
		}
		if err := svc.DeactivateRecurringPlan(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func regeneratePlanHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/recurring-plans/{planID}/regenerate")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "planID")
		if !ok {
			writeError(w, http.StatusBadRequest, "plan id must be a valid UUID")
			return
		}
		if err := svc.RegenerateRecurringPlan(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "regenerated"})
	}
}
