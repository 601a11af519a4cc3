// Package sweep schedules the daily deletion of expired documents.
package sweep

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/mherrada/veridoc/internal/documents"
	"github.com/mherrada/veridoc/pkg/lifecycle"
)

// Scheduler runs the document expiration sweep on a daily cron schedule,
// with an optional run at startup.
type Scheduler struct {
	docs   documents.System
	cfg    Config
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a sweep scheduler for the given document system.
func New(docs documents.System, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		docs:   docs,
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger.With("system", "sweep"),
	}
}

// Start registers the startup sweep and the daily schedule with the
// lifecycle coordinator.
func (s *Scheduler) Start(lc *lifecycle.Coordinator) error {
	if !s.cfg.IsEnabled() {
		s.logger.Info("expiration sweep disabled")
		return nil
	}

	spec := s.cfg.CronSpec()
	if _, err := s.cron.AddFunc(spec, func() {
		s.run(lc.Context())
	}); err != nil {
		return err
	}

	s.logger.Info("expiration sweep scheduled", "spec", spec)

	lc.OnStartup(func() {
		if s.cfg.StartupRun() {
			s.run(lc.Context())
		}
		s.cron.Start()
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		stop := s.cron.Stop()
		<-stop.Done()
		s.logger.Info("expiration sweep stopped")
	})

	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if _, err := s.docs.Sweep(ctx); err != nil {
		s.logger.Error("expiration sweep failed", "error", err)
	}
}
