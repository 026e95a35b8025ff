package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"nareo/internal/activity"
	"nareo/internal/database"
	"nareo/internal/logger"
	"nareo/internal/metrics"
	"nareo/internal/models"
	"nareo/internal/repository"
)

// maxHistoryDays bounds activity range queries
const maxHistoryDays = 366

// ActivityService aggregates study activity into one record per user and day
type ActivityService struct {
	db       *database.DB
	activity *repository.ActivityRepository
	profiles *ProfileService
	policy   activity.Policy
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	// retryInterval is the wait before the single retry of a failed increment
	retryInterval time.Duration
}

// NewActivityService creates a new activity service
func NewActivityService(db *database.DB, profiles *ProfileService, policy activity.Policy, log *logger.Logger, m *metrics.Metrics) *ActivityService {
	return &ActivityService{
		db:            db,
		activity:      repository.NewActivityRepository(db),
		profiles:      profiles,
		policy:        policy,
		log:           log,
		metrics:       m,
		now:           time.Now,
		retryInterval: 50 * time.Millisecond,
	}
}

// Policy returns the unit, XP and goal rules in use
func (s *ActivityService) Policy() activity.Policy {
	return s.policy
}

// RecordActivity adds delta to the user's record for today in the user's
// timezone. date may be empty; otherwise it must name that same day, so a
// missed day cannot be backfilled to repair a streak. The day's goal
// completes at most once; the call that crosses the target gets
// GoalJustCompleted and the XP bonus.
func (s *ActivityService) RecordActivity(ctx context.Context, userID, date string, delta models.ActivityDelta) (models.ActivityResult, error) {
	if err := delta.Validate(); err != nil {
		return models.ActivityResult{}, err
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return models.ActivityResult{}, err
	}
	today := s.profiles.Today(profile)
	if date != "" {
		d, err := models.ParseDate(date)
		if err != nil {
			return models.ActivityResult{}, models.ValidationError{Field: "date", Err: err}
		}
		if d.Format(models.DateLayout) != today {
			err := fmt.Errorf("%w: activity can only be recorded for %s", models.ErrInvalidDate, today)
			return models.ActivityResult{}, models.ValidationError{Field: "date", Err: err}
		}
	}
	date = today

	target, err := s.policy.GoalTarget(profile.GoalLevel)
	if err != nil {
		return models.ActivityResult{}, err
	}

	inc := repository.ActivityIncrement{
		Delta:  delta,
		Units:  s.policy.Units(delta),
		XP:     s.policy.XP(delta),
		Target: target,
	}

	attempt := 0
	op := func() (models.ActivityResult, error) {
		attempt++
		if attempt > 1 {
			s.metrics.ActivityRetries.Inc()
		}
		res, err := s.apply(ctx, userID, date, inc)
		if err != nil && ctx.Err() != nil {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	result, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(2),
		backoff.WithNotify(func(err error, wait time.Duration) {
			s.log.Warn("Retrying daily activity increment", "user_id", userID, "date", date, "wait", wait, "error", err)
		}),
	)
	if err != nil {
		return models.ActivityResult{}, fmt.Errorf("failed to record activity: %w", err)
	}

	s.metrics.ActivityRecorded.Inc()
	if result.GoalJustCompleted {
		s.metrics.GoalsCompleted.Inc()
		s.log.Info("Daily goal completed", "user_id", userID, "date", date, "bonus_xp", result.GoalBonusXP)
	}
	return result, nil
}

// apply runs the increment and the goal check in one transaction
func (s *ActivityService) apply(ctx context.Context, userID, date string, inc repository.ActivityIncrement) (models.ActivityResult, error) {
	result := models.ActivityResult{UnitsAdded: inc.Units, XPAdded: inc.XP}
	now := s.now().UTC()

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.activity.WithTx(tx)

		if err := repo.Increment(ctx, userID, date, inc, now); err != nil {
			return err
		}
		rec, err := repo.Get(ctx, userID, date)
		if err != nil {
			return err
		}
		if rec == nil {
			return errors.New("daily activity record missing after increment")
		}

		if !rec.GoalCompleted && activity.GoalReached(*rec) {
			bonus := s.policy.GoalBonus(rec.XPEarned)
			flipped, err := repo.CompleteGoal(ctx, userID, date, bonus, now)
			if err != nil {
				return err
			}
			if flipped {
				result.GoalJustCompleted = true
				result.GoalBonusXP = bonus
				if rec, err = repo.Get(ctx, userID, date); err != nil {
					return err
				}
			}
		}

		result.Record = *rec
		return nil
	})
	return result, err
}

// Today returns the user's record for the current day. When nothing was
// recorded yet, an empty record carrying the day's target is returned
// without being stored.
func (s *ActivityService) Today(ctx context.Context, userID string) (*models.DailyActivityRecord, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	date := s.profiles.Today(profile)

	rec, err := s.activity.Get(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}

	target, err := s.policy.GoalTarget(profile.GoalLevel)
	if err != nil {
		return nil, err
	}
	return &models.DailyActivityRecord{UserID: userID, ActivityDate: date, DailyGoalTarget: target}, nil
}

// History returns stored records between from and to inclusive
func (s *ActivityService) History(ctx context.Context, userID, from, to string) ([]models.DailyActivityRecord, error) {
	start, err := models.ParseDate(from)
	if err != nil {
		return nil, models.ValidationError{Field: "from", Err: err}
	}
	end, err := models.ParseDate(to)
	if err != nil {
		return nil, models.ValidationError{Field: "to", Err: err}
	}
	if end.Before(start) {
		return nil, models.ValidationError{Field: "to", Err: fmt.Errorf("%w: before from", models.ErrInvalidDate)}
	}
	if end.Sub(start) > maxHistoryDays*24*time.Hour {
		return nil, models.ValidationError{Field: "to", Err: fmt.Errorf("%w: range exceeds %d days", models.ErrInvalidDate, maxHistoryDays)}
	}
	return s.activity.ListRange(ctx, userID, from, to)
}
