package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"nareo/internal/activity"
	"nareo/internal/models"
)

// Overview is the dashboard summary of a user's study state
type Overview struct {
	Profile      *models.Profile             `json:"profile"`
	Streak       models.StreakResult         `json:"streak"`
	Today        *models.DailyActivityRecord `json:"today"`
	GoalProgress float64                     `json:"goal_progress"`
	DueCount     int                         `json:"due_count"`
	Priorities   []models.PriorityItem       `json:"priorities"`
}

// OverviewService assembles the dashboard from the other services
type OverviewService struct {
	profiles   *ProfileService
	reviews    *ReviewService
	activity   *ActivityService
	streaks    *StreakService
	priorities *PriorityService
}

// NewOverviewService creates a new overview service
func NewOverviewService(profiles *ProfileService, reviews *ReviewService, activity *ActivityService, streaks *StreakService, priorities *PriorityService) *OverviewService {
	return &OverviewService{
		profiles:   profiles,
		reviews:    reviews,
		activity:   activity,
		streaks:    streaks,
		priorities: priorities,
	}
}

// Overview loads the parts of the dashboard concurrently
func (s *OverviewService) Overview(ctx context.Context, userID string) (*Overview, error) {
	// create the profile up front so the parallel loads do not race on it
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &Overview{Profile: profile}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := s.streaks.CheckStreak(gctx, userID)
		out.Streak = res
		return err
	})
	g.Go(func() error {
		rec, err := s.activity.Today(gctx, userID)
		if err != nil {
			return err
		}
		out.Today = rec
		out.GoalProgress = activity.Progress(*rec)
		return nil
	})
	g.Go(func() error {
		due, err := s.reviews.ListItems(gctx, userID, true, DefaultDueLimit)
		out.DueCount = len(due)
		return err
	})
	g.Go(func() error {
		ranked, err := s.priorities.Priorities(gctx, userID, models.ScopeChapter, 0)
		out.Priorities = ranked
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
