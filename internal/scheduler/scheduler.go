// Package scheduler runs the time-driven batch jobs in-process, for
// deployments without an external cron trigger. The jobs are the same ones
// the signed /jobs endpoints expose; running both at once is harmless because
// the batches are idempotent.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

type Scheduler struct {
	requisitionService portssvc.RequisitionSvcFacade
	interval           time.Duration
	logger             *slog.Logger
}

// New creates a scheduler that runs the requisition aging batch every
// interval.
func New(requisitionService portssvc.RequisitionSvcFacade, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		requisitionService: requisitionService,
		interval:           interval,
		logger:             logger,
	}
}

// Start blocks until ctx is canceled, running the aging batch once per
// interval. Run it on its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("In-process scheduler started", slog.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("In-process scheduler stopped")
			return
		case <-ticker.C:
			s.runAging(ctx)
		}
	}
}

func (s *Scheduler) runAging(ctx context.Context) {
	runLogger := s.logger.With(slog.String("job", "requisition-aging"), slog.String("run_id", uuid.NewString()))
	jobCtx := middleware.CtxWithLogger(ctx, runLogger)

	summary, err := s.requisitionService.CloseOutdatedRequisitions(jobCtx, time.Now().UTC())
	if err != nil {
		runLogger.Error("Aging run failed", slog.String("error", err.Error()))
		return
	}
	runLogger.Info("Aging run finished",
		slog.Int("scanned", summary.Scanned),
		slog.Int("canceled", summary.Canceled),
		slog.Int("unfulfilled", summary.Unfulfilled),
		slog.Int("failed", summary.Failed))
}
