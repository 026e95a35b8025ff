package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"nareo/internal/logger"
	"nareo/internal/metrics"
)

const (
	jobFreezes   = "freeze_replenish"
	jobReminders = "streak_reminders"

	jobTimeout = 5 * time.Minute
)

// FreezeReplenisher grants weekly streak freezes
type FreezeReplenisher interface {
	ReplenishFreezes(ctx context.Context) (int64, error)
}

// ReminderSender e-mails learners whose streak is at risk
type ReminderSender interface {
	SendDue(ctx context.Context) (int, error)
}

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	scheduler *gocron.Scheduler
	freezes   FreezeReplenisher
	reminders ReminderSender
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// New creates a scheduler. reminders may be nil when e-mail is disabled.
func New(freezes FreezeReplenisher, reminders ReminderSender, log *logger.Logger, m *metrics.Metrics) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		freezes:   freezes,
		reminders: reminders,
		log:       log,
		metrics:   m,
	}
}

// Start registers the jobs and runs them in the background.
// Both jobs are hourly: freeze grants are idempotent per user per week,
// and reminders fire when a learner's local hour matches.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Hour().Tag(jobFreezes).Do(s.RunFreezeReplenish); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", jobFreezes, err)
	}
	if s.reminders != nil {
		if _, err := s.scheduler.Every(1).Hour().Tag(jobReminders).Do(s.RunReminders); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", jobReminders, err)
		}
	}

	s.scheduler.StartAsync()
	s.log.Info("Background jobs started", "jobs", s.scheduler.Len())
	return nil
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunFreezeReplenish grants freezes once
func (s *Scheduler) RunFreezeReplenish() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	granted, err := s.freezes.ReplenishFreezes(ctx)
	if err != nil {
		s.record(jobFreezes, err)
		return
	}
	s.record(jobFreezes, nil)
	if granted > 0 {
		s.log.Info("Granted streak freezes", "profiles", granted)
	}
}

// RunReminders sends due reminders once
func (s *Scheduler) RunReminders() {
	if s.reminders == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	sent, err := s.reminders.SendDue(ctx)
	s.record(jobReminders, err)
	if sent > 0 {
		s.log.Info("Sent streak reminders", "count", sent)
	}
}

func (s *Scheduler) record(job string, err error) {
	if err != nil {
		s.metrics.JobRuns.WithLabelValues(job, "error").Inc()
		s.log.Error("Background job failed", "job", job, "error", err)
		return
	}
	s.metrics.JobRuns.WithLabelValues(job, "ok").Inc()
}
