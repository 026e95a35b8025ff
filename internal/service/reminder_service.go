package service

import (
	"context"
	"time"

	"nareo/internal/logger"
	"nareo/internal/metrics"
	"nareo/internal/models"
	"nareo/internal/repository"
)

// Notifier delivers streak-at-risk reminders
type Notifier interface {
	IsEnabled() bool
	SendStreakReminder(ctx context.Context, p models.Profile, st models.StreakResult, unitsLeft float64) error
}

// ReminderService warns learners whose streak is at risk today
type ReminderService struct {
	profiles *repository.ProfileRepository
	streaks  *StreakService
	activity *ActivityService
	notifier Notifier
	hour     int
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewReminderService creates a reminder service that notifies learners at
// the given local hour
func NewReminderService(profiles *repository.ProfileRepository, streaks *StreakService, activity *ActivityService, notifier Notifier, hour int, log *logger.Logger, m *metrics.Metrics) *ReminderService {
	return &ReminderService{
		profiles: profiles,
		streaks:  streaks,
		activity: activity,
		notifier: notifier,
		hour:     hour,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// SendDue notifies every opted-in learner for whom it is the reminder hour,
// whose streak is at risk and long enough to matter. Each learner gets at
// most one reminder per local day, tracked on the profile so it survives
// restarts. It returns the number of reminders sent.
func (s *ReminderService) SendDue(ctx context.Context) (int, error) {
	if !s.notifier.IsEnabled() {
		return 0, nil
	}

	recipients, err := s.profiles.ListReminderRecipients(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	minStreak := s.streaks.Policy().ReminderStreakFrom
	sent := 0
	for _, p := range recipients {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		local := now.In(p.Location())
		if local.Hour() != s.hour {
			continue
		}
		today := local.Format(models.DateLayout)
		if p.LastRemindedOn == today {
			continue
		}

		st, err := s.streaks.CheckStreak(ctx, p.UserID)
		if err != nil {
			s.log.Error("Failed to check streak for reminder", "user_id", p.UserID, "error", err)
			s.metrics.Reminders.WithLabelValues("error").Inc()
			continue
		}
		if !st.AtRisk || st.CurrentStreak < minStreak {
			s.metrics.Reminders.WithLabelValues("skipped").Inc()
			continue
		}

		rec, err := s.activity.Today(ctx, p.UserID)
		if err != nil {
			s.log.Error("Failed to load today's activity for reminder", "user_id", p.UserID, "error", err)
			s.metrics.Reminders.WithLabelValues("error").Inc()
			continue
		}
		left := float64(rec.DailyGoalTarget) - rec.ActivityUnits

		claimed, err := s.profiles.ClaimReminder(ctx, p.UserID, today, now)
		if err != nil {
			s.log.Error("Failed to claim streak reminder", "user_id", p.UserID, "error", err)
			s.metrics.Reminders.WithLabelValues("error").Inc()
			continue
		}
		if !claimed {
			continue
		}

		if err := s.notifier.SendStreakReminder(ctx, p, st, left); err != nil {
			s.log.Error("Failed to send streak reminder", "user_id", p.UserID, "error", err)
			s.metrics.Reminders.WithLabelValues("error").Inc()
			if err := s.profiles.ReleaseReminder(ctx, p.UserID, today, p.LastRemindedOn, now); err != nil {
				s.log.Error("Failed to release streak reminder", "user_id", p.UserID, "error", err)
			}
			continue
		}
		s.metrics.Reminders.WithLabelValues("sent").Inc()
		sent++
	}
	return sent, nil
}
