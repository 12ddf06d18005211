package handler

import (
	"net/http"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port"
	"github.com/ledgerplan/ledgerd/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware. Every
// business route lives under /v1/companies/{companyID}: the company is part
// of the path, and a record of another company answers as if it did not
// exist.
func NewRouter(svc *service.Ledger, metrics *observability.Metrics, timelineCache port.Cache[[]domain.TimelineBucket], logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		r.Get("/metrics/core", coreMetricsHandler(metrics))

		r.Route("/companies/{companyID}", func(r chi.Router) {
			r.Use(requireCompanyID)

			// Accounts
			r.Get("/accounts", listAccountsHandler(svc, logger))
			r.Post("/accounts", createAccountHandler(svc, logger))
			r.Get("/accounts/{accountID}", getAccountHandler(svc, logger))
			r.Put("/accounts/{accountID}", updateAccountHandler(svc, logger))
			r.Delete("/accounts/{accountID}", deleteAccountHandler(svc, logger))

			// Categories
			r.Get("/categories", listCategoriesHandler(svc, logger))
			r.Post("/categories", createCategoryHandler(svc, logger))
			r.Get("/categories/{categoryID}", getCategoryHandler(svc, logger))
			r.Put("/categories/{categoryID}", updateCategoryHandler(svc, logger))
			r.Delete("/categories/{categoryID}", deleteCategoryHandler(svc, logger))

			// Contacts
			r.Get("/contacts", listContactsHandler(svc, logger))
			r.Post("/contacts", createContactHandler(svc, logger))
			r.Get("/contacts/{contactID}", getContactHandler(svc, logger))
			r.Put("/contacts/{contactID}", updateContactHandler(svc, logger))
			r.Delete("/contacts/{contactID}", deleteContactHandler(svc, logger))

			// Recurring plans (delete = deactivate)
			r.Get("/recurring-plans", listPlansHandler(svc, logger))
			r.Post("/recurring-plans", createPlanHandler(svc, logger))
			r.Get("/recurring-plans/{planID}", getPlanHandler(svc, logger))
			r.Put("/recurring-plans/{planID}", updatePlanHandler(svc, logger))
			r.Delete("/recurring-plans/{planID}", deactivatePlanHandler(svc, logger))
			r.Post("/recurring-plans/{planID}/regenerate", regeneratePlanHandler(svc, logger))

			// Planned entries
			r.Get("/planned-entries", listEntriesHandler(svc, logger))
			r.Post("/planned-entries", createEntryHandler(svc, logger))
			r.Get("/planned-entries/{entryID}", getEntryHandler(svc, logger))
			r.Put("/planned-entries/{entryID}", updateEntryHandler(svc, logger))
			r.Delete("/planned-entries/{entryID}", deleteEntryHandler(svc, logger))

			// Transactions
			r.Get("/transactions", listTransactionsHandler(svc, logger))
			r.Post("/transactions", createTransactionHandler(svc, logger))
			r.Get("/transactions/{transactionID}", getTransactionHandler(svc, logger))
			r.Put("/transactions/{transactionID}", updateTransactionHandler(svc, logger))
			r.Delete("/transactions/{transactionID}", deleteTransactionHandler(svc, logger))

			// Forecasts
			r.Get("/forecasts", listForecastsHandler(svc, logger))
			r.Post("/forecasts", createForecastHandler(svc, logger))
			r.Get("/forecasts/{forecastID}", getForecastHandler(svc, logger))
			r.Put("/forecasts/{forecastID}", updateForecastHandler(svc, logger))
			r.Delete("/forecasts/{forecastID}", deleteForecastHandler(svc, logger))

			// Timeline
			r.Get("/timeline", timelineHandler(svc, timelineCache, metrics, logger))
		})
	})

	return r
}

// requireCompanyID rejects malformed company ids before any handler runs.
func requireCompanyID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := pathID(r, "companyID"); !ok {
			writeError(w, http.StatusBadRequest, "company_id must be a valid UUID")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "ledgerd",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func coreMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetCoreSnapshot())
	}
}
