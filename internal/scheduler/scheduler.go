package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"agrismart/internal/config"
	"agrismart/internal/service/report"
)

// Scheduler runs the daily snapshot job on the configured cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	reportSvc *report.Service
	cfg       config.ReportingConfig
	loc       *time.Location
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance in the configured timezone,
// falling back to the host's local time when the zone cannot be loaded.
func NewScheduler(cfg config.ReportingConfig, reportSvc *report.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local time", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reportSvc: reportSvc,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runSnapshot); err != nil {
		s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The snapshot date follows the scheduler's zone, not the host's.
	if err := s.reportSvc.Run(ctx, time.Now().In(s.loc)); err != nil {
		s.logger.Error("daily snapshot failed", zap.Error(err))
	}
}
