package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/config"
	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/pkg/clients/whatsapp"
)

const jobTimeout = 2 * time.Minute

// Reporter produces and archives the statistics digest.
type Reporter interface {
	Digest(ctx context.Context) (models.Statistics, string, error)
	Archive(ctx context.Context, st models.Statistics) error
}

// Scheduler runs the weekly digest.
type Scheduler struct {
	cron      *cron.Cron
	reporter  Reporter
	sender    whatsapp.Sender
	schedule  string
	recipient string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler firing in the configured time zone.
// sender may be nil, in which case the digest is only archived.
func NewScheduler(cfg config.Config, reporter Reporter, sender whatsapp.Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(cfg.Location())),
		reporter:  reporter,
		sender:    sender,
		schedule:  cfg.Reporting.CronSchedule,
		recipient: cfg.WhatsApp.Recipient,
		logger:    logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runWeeklyDigest); err != nil {
		return fmt.Errorf("schedule weekly digest %q: %w", s.schedule, err)
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

func (s *Scheduler) runWeeklyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.SendWeeklyDigest(ctx); err != nil {
		s.logger.Error("weekly digest failed", zap.Error(err))
		return
	}
	s.logger.Info("weekly digest completed")
}

// SendWeeklyDigest archives the current statistics and sends the digest.
// Archiving and delivery are attempted independently.
func (s *Scheduler) SendWeeklyDigest(ctx context.Context) error {
	st, text, err := s.reporter.Digest(ctx)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	var errs error
	if err := s.reporter.Archive(ctx, st); err != nil {
		errs = multierr.Append(errs, err)
	}

	if s.sender != nil {
		id, err := s.sender.SendText(ctx, s.recipient, text)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("send digest: %w", err))
		} else {
			s.logger.Debug("digest sent", zap.String("message_id", id))
		}
	}

	return errs
}
