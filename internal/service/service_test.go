package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"nareo/internal/activity"
	"nareo/internal/database"
	"nareo/internal/logger"
	"nareo/internal/metrics"
	"nareo/internal/models"
	"nareo/internal/priority"
	"nareo/internal/repository"
	"nareo/internal/srs"
	"nareo/internal/streak"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type testEnv struct {
	db         *database.DB
	clock      *fakeClock
	metrics    *metrics.Metrics
	profiles   *ProfileService
	activity   *ActivityService
	reviews    *ReviewService
	streaks    *StreakService
	priorities *PriorityService
	overview   *OverviewService
}

// 18:30 UTC on a Tuesday
var testNow = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.RunMigrations("../../migrations")
	require.NoError(t, err)

	log := logger.NewNop()
	m := metrics.NewNop()
	clock := &fakeClock{t: testNow}
	streakPolicy := streak.DefaultPolicy()
	activityPolicy := activity.DefaultPolicy()

	profiles := NewProfileService(repository.NewProfileRepository(db), streakPolicy.InitialFreezes)
	activitySvc := NewActivityService(db, profiles, activityPolicy, log, m)
	activitySvc.retryInterval = time.Millisecond
	items := repository.NewItemRepository(db)
	reviews := NewReviewService(items, activitySvc, srs.NewScheduler(srs.DefaultParams()), log, m)
	streaks := NewStreakService(db, profiles, streakPolicy, activityPolicy, log, m)
	priorities := NewPriorityService(items, priority.DefaultWeights())

	profiles.now = clock.Now
	activitySvc.now = clock.Now
	reviews.now = clock.Now
	streaks.now = clock.Now
	priorities.now = clock.Now

	return &testEnv{
		db:         db,
		clock:      clock,
		metrics:    m,
		profiles:   profiles,
		activity:   activitySvc,
		reviews:    reviews,
		streaks:    streaks,
		priorities: priorities,
		overview:   NewOverviewService(profiles, reviews, activitySvc, streaks, priorities),
	}
}

// day returns the calendar date n days from the test clock's UTC date
func day(n int) string {
	return testNow.AddDate(0, 0, n).Format("2006-01-02")
}

// recordOn records delta with the clock moved to noon UTC on date, the only
// day RecordActivity accepts for a learner in a nearby timezone
func recordOn(t *testing.T, env *testEnv, userID, date string, delta models.ActivityDelta) models.ActivityResult {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)

	prev := env.clock.Now()
	env.clock.Set(time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC))
	defer env.clock.Set(prev)

	res, err := env.activity.RecordActivity(context.Background(), userID, "", delta)
	require.NoError(t, err)
	return res
}
