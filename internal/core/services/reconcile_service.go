package services

import (
	"context"
	"errors"
	"time"

	"careerhub-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReconcileService periodically re-evaluates progress rows that have no certificate,
// catching completions whose background job was dropped or failed.
type ReconcileService struct {
	progressRepo repositories.ProgressRepository
	evaluator    Evaluator
	cron         *cron.Cron
	schedule     string
	batch        int
	timeout      time.Duration
	log          *zap.Logger

	// ctx bounds scheduled sweeps; Stop cancels it
	ctx    context.Context
	cancel context.CancelFunc
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(
	progressRepo repositories.ProgressRepository,
	evaluator Evaluator,
	schedule string,
	batch int,
	timeout time.Duration,
	log *zap.Logger,
) *ReconcileService {
	if batch < 1 {
		batch = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ReconcileService{
		progressRepo: progressRepo,
		evaluator:    evaluator,
		cron:         cron.New(cron.WithLocation(time.UTC)),
		schedule:     schedule,
		batch:        batch,
		timeout:      timeout,
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start registers the sweep and starts the scheduler
func (s *ReconcileService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("reconciliation scheduled", zap.String("schedule", s.schedule))
	return nil
}

func (s *ReconcileService) sweep() {
	if _, err := s.RunOnce(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("reconciliation sweep failed", zap.Error(err))
	}
}

// Stop stops the scheduler and waits for a running sweep. When ctx expires first
// the sweep is cancelled and Stop still waits for it to return.
func (s *ReconcileService) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		s.cancel()
		<-stopped.Done()
	}
	s.cancel()
}

// RunOnce walks every completed progress row without a certificate, batch by batch,
// and returns how many certificates it issued.
func (s *ReconcileService) RunOnce(ctx context.Context) (int, error) {
	issued := 0
	candidates := 0
	var afterID uint

	for {
		page, err := s.progressRepo.ListCompletedWithoutCertificate(ctx, afterID, s.batch)
		if err != nil {
			return issued, err
		}

		for _, p := range page {
			if err := ctx.Err(); err != nil {
				return issued, err
			}
			if s.evaluate(ctx, p.UserID, p.CourseID) {
				issued++
			}
		}

		candidates += len(page)
		if len(page) < s.batch {
			break
		}
		afterID = page[len(page)-1].ID
	}

	if issued > 0 {
		s.log.Info("reconciliation issued certificates", zap.Int("count", issued), zap.Int("candidates", candidates))
	}
	return issued, nil
}

func (s *ReconcileService) evaluate(ctx context.Context, userID, courseID uint) bool {
	jobCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.evaluator.Evaluate(jobCtx, userID, courseID)
	if err != nil {
		s.log.Warn("reconcile evaluation failed",
			zap.Uint("user_id", userID),
			zap.Uint("course_id", courseID),
			zap.Error(err),
		)
		return false
	}
	return result.Certificate != nil
}
