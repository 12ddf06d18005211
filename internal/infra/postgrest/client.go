// Package postgrest implements port.LedgerStore on top of a PostgREST
// document API (Supabase-style). One table per entity, filters passed as
// query strings, aggregates via PostgREST's sum() selects.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("postgrest")

// Store wraps HTTP calls to the PostgREST API. Every call runs under a
// per-call timeout, a bulkhead capping concurrent requests, a circuit
// breaker and retry with backoff.
type Store struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	bulkhead       *resilience.Bulkhead
	cfg            resilience.Config
	timeout        time.Duration
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewStore creates a PostgREST-backed ledger store.
func NewStore(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cfg resilience.Config, timeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Store {
	return &Store{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             resilience.NewCircuitBreaker("postgrest"),
		bulkhead:       resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:            cfg,
		timeout:        timeout,
		metrics:        metrics,
		logger:         logger,
	}
}

// doRequest executes an authenticated request against PostgREST.
// A nil body with no error means "no data" (404 / 204).
func (s *Store) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		s.logger.Error("postgrest: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("postgrest: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("postgrest: failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil // no data
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("postgrest: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("postgrest returned status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Debug("postgrest: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return body, nil
}

// execute runs fn under the full resilience stack and maps the failure
// modes onto domain errors.
func (s *Store) execute(ctx context.Context, op, collection string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "Store."+op)
	defer span.End()
	span.SetAttributes(attribute.String("db.collection", collection))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return s.mapError(op, collection, err)
	}
	defer s.bulkhead.Release()

	_, err := s.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, s.cfg, func() error {
			return fn(ctx)
		})
	})
	if err != nil {
		return s.mapError(op, collection, err)
	}
	return nil
}

func (s *Store) mapError(op, collection string, err error) error {
	if s.metrics != nil {
		s.metrics.IncrStoreError(collection)
	}
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &domain.ErrCircuitOpen{Service: "postgrest"}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.ErrTimeout{Operation: op}
	default:
		return &domain.ErrExternalService{Service: "postgrest/" + collection, Err: err}
	}
}

// getList fetches and decodes a JSON array. An empty result is an empty
// slice, never an error.
func getList[T any](ctx context.Context, s *Store, op, collection, path string) ([]T, error) {
	var rows []T
	err := s.execute(ctx, op, collection, func(ctx context.Context) error {
		body, err := s.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			rows = []T{}
			return nil
		}
		rows = nil
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decoding %s: %w", collection, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// getOne fetches a single row by id. A missing row maps to ErrNotFound
// after the resilience stack, so not-found is never retried.
func getOne[T any](ctx context.Context, s *Store, op, collection, id string) (*T, error) {
	path := fmt.Sprintf("%s?id=eq.%s&limit=1", collection, id)
	rows, err := getList[T](ctx, s, op, collection, path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: collection, ID: id}
	}
	return &rows[0], nil
}

// insertOne posts a new row.
func insertOne(ctx context.Context, s *Store, op, collection string, row any) error {
	return s.execute(ctx, op, collection, func(ctx context.Context) error {
		_, err := s.doRequest(ctx, http.MethodPost, collection, row)
		return err
	})
}

// updateByID patches the row with the given id. payload may be a full
// entity or a partial column map.
func updateByID(ctx context.Context, s *Store, op, collection, id string, payload any) error {
	path := fmt.Sprintf("%s?id=eq.%s", collection, id)
	return s.execute(ctx, op, collection, func(ctx context.Context) error {
		_, err := s.doRequest(ctx, http.MethodPatch, path, payload)
		return err
	})
}

// deleteByPath issues a DELETE for every row the filter matches.
func deleteByPath(ctx context.Context, s *Store, op, collection, path string) error {
	return s.execute(ctx, op, collection, func(ctx context.Context) error {
		_, err := s.doRequest(ctx, http.MethodDelete, path, nil)
		return err
	})
}

// existsAny reports whether the filter matches at least one row.
func existsAny(ctx context.Context, s *Store, op, collection, path string) (bool, error) {
	type idRow struct {
		ID string `json:"id"`
	}
	rows, err := getList[idRow](ctx, s, op, collection, path)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// sumRow is the shape of PostgREST aggregate responses like
// select=flow_type,total:amount_estimated.sum().
type sumRow struct {
	FlowType        string  `json:"flow_type,omitempty"`
	TransactionType string  `json:"transaction_type,omitempty"`
	Total           float64 `json:"total"`
}

// queryTime formats a timestamp for a PostgREST filter value.
func queryTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
