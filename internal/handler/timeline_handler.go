package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port"
	"github.com/ledgerplan/ledgerd/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// timelineHandler serves the bucketed cash flow view. Responses are cached
// per (company, mode, window) for a short TTL: the timeline is read far more
// often than the ledger changes, and stale bucket sums are acceptable for
// the cache window.
func timelineHandler(svc *service.Ledger, cache port.Cache[[]domain.TimelineBucket], metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/companies/{companyID}/timeline")
		defer span.End()

		companyID := chi.URLParam(r, "companyID")

		mode, err := domain.ParseTimelineMode(r.URL.Query().Get("mode"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		from, ok := parseTimeParam(r, "from")
		if !ok {
			writeError(w, http.StatusBadRequest, "from must be an RFC 3339 timestamp")
			return
		}
		to, ok := parseTimeParam(r, "to")
		if !ok {
			writeError(w, http.StatusBadRequest, "to must be an RFC 3339 timestamp")
			return
		}
		if !to.After(from) {
			writeError(w, http.StatusBadRequest, "to must be after from")
			return
		}
		span.SetAttributes(
			attribute.String("company.id", companyID),
			attribute.String("timeline.mode", string(mode)),
		)

		key := fmt.Sprintf("%s|%s|%d|%d", companyID, mode, from.Unix(), to.Unix())
		if cache != nil {
			if buckets, hit := cache.Get(key); hit {
				if metrics != nil {
					metrics.IncrCacheHit("timeline")
				}
				writeJSON(w, http.StatusOK, buckets)
				return
			}
			if metrics != nil {
				metrics.IncrCacheMiss("timeline")
			}
		}

		buckets, err := svc.Timeline(ctx, companyID, mode, from, to)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if cache != nil {
			cache.Set(key, buckets)
		}
		writeJSON(w, http.StatusOK, buckets)
	}
}

func parseTimeParam(r *http.Request, name string) (time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
