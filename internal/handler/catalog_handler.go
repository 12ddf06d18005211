package handler

import (
	"net/http"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Accounts
// ============================================================

func listAccountsHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/accounts")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		accounts, err := svc.ListAccounts(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

func getAccountHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/accounts/{accountID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "accountID")
		if !ok {
			writeError(w, http.StatusBadRequest, "account id must be a valid UUID")
			return
		}
		account, err := svc.GetAccount(ctx, companyID, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func createAccountHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/accounts")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		var account domain.Account
		if !decodeBody(w, r, &account) {
			return
		}
		if _, err := domain.ParseAccountType(string(account.AccountType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		created, err := svc.CreateAccount(ctx, companyID, &account)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateAccountHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/companies/{companyID}/accounts/{accountID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "accountID")
		if !ok {
			writeError(w, http.StatusBadRequest, "account id must be a valid UUID")
			return
		}
		var account domain.Account
		if !decodeBody(w, r, &account) {
			return
		}
		if _, err := domain.ParseAccountType(string(account.AccountType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		updated, err := svc.UpdateAccount(ctx, companyID, id, &account)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteAccountHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/companies/{companyID}/accounts/{accountID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "accountID")
		if !ok {
			writeError(w, http.StatusBadRequest, "account id must be a valid UUID")
			return
		}
		if err := svc.DeleteAccount(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Categories
// ============================================================

func listCategoriesHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/categories")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		categories, err := svc.ListCategories(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func getCategoryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/categories/{categoryID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "categoryID")
		if !ok {
			writeError(w, http.StatusBadRequest, "category id must be a valid UUID")
			return
		}
		category, err := svc.GetCategory(ctx, companyID, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, category)
	}
}

func createCategoryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/categories")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		var category domain.Category
		if !decodeBody(w, r, &category) {
			return
		}
		if _, err := domain.ParseFlowType(string(category.FlowType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		created, err := svc.CreateCategory(ctx, companyID, &category)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateCategoryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/companies/{companyID}/categories/{categoryID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "categoryID")
		if !ok {
			writeError(w, http.StatusBadRequest, "category id must be a valid UUID")
			return
		}
		var category domain.Category
		if !decodeBody(w, r, &category) {
			return
		}
		if _, err := domain.ParseFlowType(string(category.FlowType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		updated, err := svc.UpdateCategory(ctx, companyID, id, &category)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteCategoryHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/companies/{companyID}/categories/{categoryID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "categoryID")
		if !ok {
			writeError(w, http.StatusBadRequest, "category id must be a valid UUID")
			return
		}
		if err := svc.DeleteCategory(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Contacts
// ============================================================

func listContactsHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/contacts")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		contacts, err := svc.ListContacts(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, contacts)
	}
}

func getContactHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/contacts/{contactID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "contactID")
		if !ok {
			writeError(w, http.StatusBadRequest, "contact id must be a valid UUID")
			return
		}
		contact, err := svc.GetContact(ctx, companyID, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, contact)
	}
}

func createContactHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/companies/{companyID}/contacts")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		var contact domain.Contact
		if !decodeBody(w, r, &contact) {
			return
		}
		if _, err := domain.ParseContactType(string(contact.ContactType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		created, err := svc.CreateContact(ctx, companyID, &contact)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateContactHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/companies/{companyID}/contacts/{contactID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "contactID")
		if !ok {
			writeError(w, http.StatusBadRequest, "contact id must be a valid UUID")
			return
		}
		var contact domain.Contact
		if !decodeBody(w, r, &contact) {
			return
		}
		if _, err := domain.ParseContactType(string(contact.ContactType)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		updated, err := svc.UpdateContact(ctx, companyID, id, &contact)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteContactHandler(svc *service.Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/companies/{companyID}/contacts/{contactID}")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")
		id, ok := pathID(r, "contactID")
		if !ok {
			writeError(w, http.StatusBadRequest, "contact id must be a valid UUID")
			return
		}
		if err := svc.DeleteContact(ctx, companyID, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
