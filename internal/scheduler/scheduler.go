// Package scheduler runs the periodic re-index job on a cron schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	jobFunc func(ctx context.Context) error
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// SetJob sets the function executed on every tick.
func (s *Scheduler) SetJob(f func(ctx context.Context) error) {
	s.jobFunc = f
}

// Start registers the job under the given cron spec and starts the loop.
func (s *Scheduler) Start(spec string) error {
	if s.jobFunc == nil {
		s.logger.Warn("scheduler job not set, nothing to run")
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("scheduled re-index triggered", zap.String("spec", spec))
		if err := s.jobFunc(s.ctx); err != nil {
			s.logger.Error("scheduled re-index failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
