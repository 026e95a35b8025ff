package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nareo/internal/activity"
	"nareo/internal/database"
	"nareo/internal/logger"
	"nareo/internal/metrics"
	"nareo/internal/models"
	"nareo/internal/repository"
	"nareo/internal/streak"
)

// StreakService derives streaks from daily activity and manages freezes
// and milestones
type StreakService struct {
	db             *database.DB
	activity       *repository.ActivityRepository
	profileRepo    *repository.ProfileRepository
	profiles       *ProfileService
	policy         streak.Policy
	activityPolicy activity.Policy
	log            *logger.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewStreakService creates a new streak service
func NewStreakService(db *database.DB, profiles *ProfileService, policy streak.Policy, activityPolicy activity.Policy, log *logger.Logger, m *metrics.Metrics) *StreakService {
	return &StreakService{
		db:             db,
		activity:       repository.NewActivityRepository(db),
		profileRepo:    repository.NewProfileRepository(db),
		profiles:       profiles,
		policy:         policy,
		activityPolicy: activityPolicy,
		log:            log,
		metrics:        m,
		now:            time.Now,
	}
}

// Policy returns the streak rules in use
func (s *StreakService) Policy() streak.Policy {
	return s.policy
}

// CheckStreak computes the user's streak as of today in their timezone and
// persists a new longest streak
func (s *StreakService) CheckStreak(ctx context.Context, userID string) (models.StreakResult, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return models.StreakResult{}, err
	}
	return s.check(ctx, profile)
}

func (s *StreakService) check(ctx context.Context, profile *models.Profile) (models.StreakResult, error) {
	today := s.profiles.Today(profile)
	from, err := models.ShiftDate(today, -s.policy.LookbackDays)
	if err != nil {
		return models.StreakResult{}, err
	}

	records, err := s.activity.ListRange(ctx, profile.UserID, from, today)
	if err != nil {
		return models.StreakResult{}, err
	}

	result, err := streak.Check(records, today, profile.LongestStreak)
	if err != nil {
		return models.StreakResult{}, err
	}
	result.FreezesAvailable = profile.FreezesAvailable

	if result.LongestStreak > profile.LongestStreak {
		if err := s.profileRepo.RaiseLongestStreak(ctx, profile.UserID, result.LongestStreak, s.now().UTC()); err != nil {
			return models.StreakResult{}, err
		}
	}
	return result, nil
}

// UseFreeze spends one streak freeze to cover date, which defaults to
// yesterday. The freeze count and the day's record change in one
// transaction. Freezes are not retried.
func (s *StreakService) UseFreeze(ctx context.Context, userID, date string) (models.FreezeResult, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return models.FreezeResult{}, err
	}
	today := s.profiles.Today(profile)
	if date == "" {
		if date, err = models.ShiftDate(today, -1); err != nil {
			return models.FreezeResult{}, err
		}
	}
	if _, err := models.ParseDate(date); err != nil {
		return models.FreezeResult{}, models.ValidationError{Field: "date", Err: err}
	}

	target, err := s.activityPolicy.GoalTarget(profile.GoalLevel)
	if err != nil {
		return models.FreezeResult{}, err
	}

	now := s.now().UTC()
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		activityRepo := s.activity.WithTx(tx)

		rec, err := activityRepo.Get(ctx, userID, date)
		if err != nil {
			return err
		}
		if err := streak.CheckFreeze(rec, date, today, s.policy.MaxFreezeBackdays); err != nil {
			return err
		}

		consumed, err := s.profileRepo.WithTx(tx).ConsumeFreeze(ctx, userID, now)
		if err != nil {
			return err
		}
		if !consumed {
			return models.ErrNoFreezeAvailable
		}
		return activityRepo.MarkFreeze(ctx, userID, date, target, now)
	})
	if err != nil {
		return models.FreezeResult{}, err
	}

	s.metrics.FreezesUsed.Inc()
	s.log.Info("Streak freeze used", "user_id", userID, "date", date)

	// reload so the freeze count reflects the decrement
	if profile, err = s.profileRepo.Get(ctx, userID); err != nil {
		return models.FreezeResult{}, err
	}
	result, err := s.check(ctx, profile)
	if err != nil {
		return models.FreezeResult{}, err
	}
	return models.FreezeResult{Date: date, FreezesAvailable: profile.FreezesAvailable, Streak: result}, nil
}

// ClaimMilestones reports streak milestones reached since the last claim.
// Each milestone is reported once per run: the watermark only moves by
// compare-and-swap, and drops back when the streak falls below it so the
// thresholds can be earned again.
func (s *StreakService) ClaimMilestones(ctx context.Context, userID string) (models.MilestoneResult, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return models.MilestoneResult{}, err
	}
	result, err := s.check(ctx, profile)
	if err != nil {
		return models.MilestoneResult{}, err
	}

	current := result.CurrentStreak
	watermark := profile.LastMilestone
	now := s.now().UTC()

	if current < watermark {
		lowered := highestReached(current, s.policy.Milestones)
		ok, err := s.profileRepo.AdvanceMilestone(ctx, userID, watermark, lowered, now)
		if err != nil {
			return models.MilestoneResult{}, err
		}
		if !ok {
			return s.concurrentClaim(ctx, userID, current)
		}
		watermark = lowered
	}

	crossed := streak.NewMilestones(current, watermark, s.policy.Milestones)
	if len(crossed) == 0 {
		return models.MilestoneResult{CurrentStreak: current, NewMilestones: []int{}, LastAwarded: watermark}, nil
	}

	top := crossed[len(crossed)-1]
	ok, err := s.profileRepo.AdvanceMilestone(ctx, userID, watermark, top, now)
	if err != nil {
		return models.MilestoneResult{}, err
	}
	if !ok {
		return s.concurrentClaim(ctx, userID, current)
	}

	for _, m := range crossed {
		s.metrics.Milestones.WithLabelValues(strconv.Itoa(m)).Inc()
	}
	s.log.Info("Streak milestones reached", "user_id", userID, "milestones", crossed)
	return models.MilestoneResult{CurrentStreak: current, NewMilestones: crossed, LastAwarded: top}, nil
}

// concurrentClaim answers a claim that lost the watermark race: the other
// request reported the milestones
func (s *StreakService) concurrentClaim(ctx context.Context, userID string, current int) (models.MilestoneResult, error) {
	p, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return models.MilestoneResult{}, err
	}
	return models.MilestoneResult{CurrentStreak: current, NewMilestones: []int{}, LastAwarded: p.LastMilestone}, nil
}

// ReplenishFreezes grants one freeze to every profile below the cap whose
// last grant is at least FreezeGrantDays old
func (s *StreakService) ReplenishFreezes(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	dueBefore := now.AddDate(0, 0, -s.policy.FreezeGrantDays)

	granted, err := s.profileRepo.GrantFreezes(ctx, s.policy.MaxFreezes, dueBefore, now)
	if err != nil {
		return 0, fmt.Errorf("failed to replenish streak freezes: %w", err)
	}
	s.metrics.FreezesGranted.Add(float64(granted))
	return granted, nil
}

func highestReached(current int, thresholds []int) int {
	best := 0
	for _, m := range thresholds {
		if m <= current && m > best {
			best = m
		}
	}
	return best
}
