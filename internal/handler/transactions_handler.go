package handler

import (
	"net/http"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Transactions
// ============================================================

func listTransactionsHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/transactions")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		txs, err := svc.ListTransactions(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func getTransactionHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/transactions/{transactionID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "transactionID")
		if !ok {
			writeError(w, http.StatusBadRequest, "transaction id must be a valid UUID")
			return
		}
		tx, err := svc.GetTransaction(ctx, companyID, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func createTransactionHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/transactions")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		var tx domain.Transaction
		if !decodeBody(w, r, &tx) {
			return
		}
		if _, err := domain.ParseTransactionType(string(tx.TransactionType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		created, err := svc.CreateTransaction(ctx, companyID, &tx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateTransactionHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/companies/{companyID}/transactions/{transactionID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "transactionID")
		if !ok {
			writeError(w, http.StatusBadRequest, "transaction id must be a valid UUID")
			return
		}
		var tx domain.Transaction
		if !decodeBody(w, r, &tx) {
			return
		}
		if _, err := domain.ParseTransactionType(string(tx.TransactionType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		updated, err := svc.UpdateTransaction(ctx, companyID, id, &tx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteTransactionHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/companies/{companyID}/transactions/{transactionID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "transactionID")
		if !ok {
			writeError(w, http.StatusBadRequest, "transaction id must be a valid UUID")
			return
		}
		if err := svc.DeleteTransaction(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
