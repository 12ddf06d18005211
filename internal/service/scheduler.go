package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var schedulerTracer = otel.Tracer("scheduler")

// Scheduler materializes recurring plans into dated planned entries. It owns
// the generate / regenerate / deactivate lifecycle; the plan CRUD service
// decides when to call it.
type Scheduler struct {
	store   port.LedgerStore
	horizon int
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewScheduler creates a scheduler that generates up to horizon entries per
// plan. now is injectable for tests; pass nil for the wall clock.
func NewScheduler(store port.LedgerStore, horizon int, metrics *observability.Metrics, logger *zap.Logger, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		store:   store,
		horizon: horizon,
		metrics: metrics,
		logger:  logger,
		now:     now,
	}
}

// Generate inserts one planned entry per upcoming due date of the plan.
// Inactive plans generate nothing.
func (s *Scheduler) Generate(ctx context.Context, plan *domain.RecurringPlan) error {
	ctx, span := schedulerTracer.Start(ctx, "Scheduler.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", plan.ID))

	if !plan.IsActive {
		return nil
	}

	now := s.now().UTC()
	dates := upcomingDueDates(plan, now, s.horizon)

	planID := plan.ID
	version := plan.Version
	for _, due := range dates {
		createdAt := now
		entry := &domain.PlannedEntry{
			ID:                   uuid.NewString(),
			CompanyID:            plan.CompanyID,
			RecurringPlanID:      &planID,
			RecurringPlanVersion: &version,
			Name:                 fmt.Sprintf("%s %s", plan.Name, due.Format("2006-01-02")),
			FlowType:             plan.FlowType,
			CategoryID:           plan.CategoryID,
			AccountExpectedID:    plan.AccountExpectedID,
			ContactID:            plan.ContactID,
			AmountEstimated:      plan.AmountEstimated,
			DueDate:              due,
			Status:               domain.StatusPlanned,
			CreatedAt:            &createdAt,
			UpdatedAt:            &createdAt,
		}
		if err := s.store.InsertPlannedEntry(ctx, entry); err != nil {
			return err
		}
	}

	if s.metrics != nil {
		s.metrics.IncrEntriesGenerated(frequencyLabel(plan.Frequency), len(dates))
	}
	s.logger.Info("scheduler: generated planned entries",
		zap.String("plan_id", plan.ID),
		zap.Int("plan_version", plan.Version),
		zap.Int("count", len(dates)),
	)
	return nil
}

// Regenerate drops the plan's open future entries and generates a fresh run.
// Covered, cancelled and past-due entries survive as history. trigger is a
// metrics label ("regenerate" or "deactivate").
func (s *Scheduler) Regenerate(ctx context.Context, plan *domain.RecurringPlan, trigger string) error {
	ctx, span := schedulerTracer.Start(ctx, "Scheduler.Regenerate")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", plan.ID))

	if err := s.store.DeleteOpenEntriesFrom(ctx, plan.ID, s.now().UTC()); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrEntriesDeleted(trigger)
	}
	return s.Generate(ctx, plan)
}

// OnPlanDeactivated removes the plan's open future entries without
// generating replacements.
func (s *Scheduler) OnPlanDeactivated(ctx context.Context, plan *domain.RecurringPlan) error {
	ctx, span := schedulerTracer.Start(ctx, "Scheduler.OnPlanDeactivated")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", plan.ID))

	if err := s.store.DeleteOpenEntriesFrom(ctx, plan.ID, s.now().UTC()); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrEntriesDeleted("deactivate")
	}
	s.logger.Info("scheduler: cleared open entries for deactivated plan",
		zap.String("plan_id", plan.ID),
	)
	return nil
}

func frequencyLabel(freq string) string {
	switch freq {
	case "monthly", "weekly", "biweekly":
		return freq
	}
	return "other"
}
