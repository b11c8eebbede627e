package scheduler

import (
	"context"
	"time"

	"listcraft/internal/shared/logger"
)

// TrialNoticeProcessor is the sweep the scheduler drives.
type TrialNoticeProcessor interface {
	Execute(ctx context.Context) error
}

// TrialNoticeScheduler periodically sweeps for trials about to end and
// sends the trial-ending-soon email.
type TrialNoticeScheduler struct {
	processor TrialNoticeProcessor
	logger    logger.Interface
	stopChan  chan struct{}
	interval  time.Duration
}

func NewTrialNoticeScheduler(processor TrialNoticeProcessor, logger logger.Interface) *TrialNoticeScheduler {
	return &TrialNoticeScheduler{
		processor: processor,
		logger:    logger,
		stopChan:  make(chan struct{}),
		interval:  6 * time.Hour,
	}
}

// Start blocks until the context is canceled or Stop is called. Run it in
// its own goroutine.
func (s *TrialNoticeScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting trial notice scheduler", "interval", s.interval)

	// Run immediately on start
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("trial notice scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			s.logger.Infow("trial notice scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TrialNoticeScheduler) Stop() {
	close(s.stopChan)
}

func (s *TrialNoticeScheduler) sweep(ctx context.Context) {
	s.logger.Debugw("trial notice sweep started")

	if err := s.processor.Execute(ctx); err != nil {
		s.logger.Errorw("trial notice sweep failed", "error", err)
		return
	}

	s.logger.Debugw("trial notice sweep completed")
}
