package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/config"
	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository/sheets"
)

const digestTimeout = 2 * time.Minute

// DigestGenerator builds and persists the daily digest for the calendar day
// of loc.
type DigestGenerator interface {
	Digest(ctx context.Context, loc *time.Location) (models.DailyDigest, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	location *time.Location
	digests  DigestGenerator
	mirror   sheets.RowWriter
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
// mirror may be nil when the spreadsheet mirror is not configured.
func NewScheduler(cfg config.DigestConfig, digests DigestGenerator, mirror sheets.RowWriter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.CronSchedule,
		location: loc,
		digests:  digests,
		mirror:   mirror,
		logger:   logger,
	}, nil
}

// Start registers the digest job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDigest); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := s.RunDigest(ctx); err != nil {
		s.logger.Error("daily digest failed", zap.Error(err))
	}
}

// RunDigest generates and stores one digest, then mirrors it to the
// spreadsheet. A mirror failure is logged and does not fail the run.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	s.logger.Info("generating daily digest")

	digest, err := s.digests.Digest(ctx, s.location)
	if err != nil {
		return fmt.Errorf("generate digest: %w", err)
	}

	if s.mirror == nil {
		return nil
	}
	if err := s.mirror.WriteRow(ctx, sheets.DigestRange, sheets.DigestRow(digest)); err != nil {
		s.logger.Warn("failed to mirror digest", zap.String("date", digest.Date), zap.Error(err))
		return nil
	}

	s.logger.Info("digest mirrored to sheet", zap.String("date", digest.Date))
	return nil
}
