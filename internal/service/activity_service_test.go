package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nareo/internal/models"
)

func TestRecordActivityGoalCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// standard goal is 35 units
	res, err := env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: 30})
	require.NoError(t, err)
	assert.Equal(t, 30.0, res.UnitsAdded)
	assert.Equal(t, 300, res.XPAdded)
	assert.False(t, res.GoalJustCompleted)
	assert.Equal(t, day(0), res.Record.ActivityDate)
	assert.Equal(t, 35, res.Record.DailyGoalTarget)

	res, err = env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{FlashcardsGood: 10})
	require.NoError(t, err)
	assert.True(t, res.GoalJustCompleted)
	assert.Equal(t, 175, res.GoalBonusXP, "half of the 350 XP earned so far")
	assert.Equal(t, 35.0, res.Record.ActivityUnits)
	assert.Equal(t, 10, res.Record.FlashcardsGood)
	assert.Equal(t, 525, res.Record.XPEarned)
	assert.True(t, res.Record.GoalCompleted)
	require.NotNil(t, res.Record.GoalCompletedAt)

	res, err = env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsIncorrect: 1})
	require.NoError(t, err)
	assert.False(t, res.GoalJustCompleted, "goal completes once per day")
	assert.Zero(t, res.GoalBonusXP)
	assert.Equal(t, 36.0, res.Record.ActivityUnits)
	assert.Equal(t, 527, res.Record.XPEarned)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.GoalsCompleted))
}

func TestRecordActivityValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: -1})
	assert.ErrorIs(t, err, models.ErrInvalidDelta)

	_, err = env.activity.RecordActivity(ctx, "user-1", "10/03/2026", models.ActivityDelta{QuestionsCorrect: 1})
	assert.ErrorIs(t, err, models.ErrInvalidDate)

	_, err = env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: math.MaxInt / 5})
	assert.ErrorIs(t, err, models.ErrInvalidDelta)

	_, err = env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{FlashcardsGood: models.MaxDeltaCount + 1})
	assert.ErrorIs(t, err, models.ErrInvalidDelta)

	rec, err := env.activity.Today(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, rec.ActivityUnits, "rejected deltas leave no trace")
}

func TestRecordActivityOnlyToday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"empty means today", "", false},
		{"explicit today", day(0), false},
		{"yesterday", day(-1), true},
		{"last week", day(-7), true},
		{"tomorrow", day(1), true},
		{"far future", day(5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.activity.RecordActivity(ctx, "user-1", tt.date, models.ActivityDelta{QuestionsCorrect: 1})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, models.ErrInvalidDate)
			var verr models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "date", verr.Field)
		})
	}

	records, err := env.activity.History(ctx, "user-1", day(-7), day(0))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, day(0), records[0].ActivityDate)
	assert.Equal(t, 2, records[0].QuestionsCorrect)
}

func TestRecordActivityTodayFollowsTimezone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.Update(ctx, "user-1", models.ProfileUpdate{Timezone: strPtr("Pacific/Auckland")})
	require.NoError(t, err)

	// 18:30 UTC on day(0) is already day(1) in Auckland
	_, err = env.activity.RecordActivity(ctx, "user-1", day(0), models.ActivityDelta{QuestionsCorrect: 1})
	assert.ErrorIs(t, err, models.ErrInvalidDate)

	res, err := env.activity.RecordActivity(ctx, "user-1", day(1), models.ActivityDelta{QuestionsCorrect: 1})
	require.NoError(t, err)
	assert.Equal(t, day(1), res.Record.ActivityDate)
}

func TestRecordActivityZeroDelta(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{})
	require.NoError(t, err)
	assert.Zero(t, res.Record.ActivityUnits)
	assert.False(t, res.GoalJustCompleted)

	records, err := env.activity.History(ctx, "user-1", day(0), day(0))
	require.NoError(t, err)
	assert.Len(t, records, 1, "zero delta creates the day's record")
}

func TestRecordActivityUsesLearnerTimezone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tz := "Pacific/Auckland"
	_, err := env.profiles.Update(ctx, "user-1", models.ProfileUpdate{Timezone: &tz})
	require.NoError(t, err)

	// 18:30 UTC is already the next morning in Auckland
	res, err := env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: 1})
	require.NoError(t, err)
	assert.Equal(t, day(1), res.Record.ActivityDate)
}

func TestRecordActivityTargetFixedAtCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: 20})
	require.NoError(t, err)

	level := string(models.GoalTranquille)
	_, err = env.profiles.Update(ctx, "user-1", models.ProfileUpdate{GoalLevel: &level})
	require.NoError(t, err)

	res, err := env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: 1})
	require.NoError(t, err)
	assert.Equal(t, 35, res.Record.DailyGoalTarget)
	assert.False(t, res.Record.GoalCompleted)

	// a new day picks up the new level
	env.clock.Set(testNow.Add(24 * time.Hour))
	res, err = env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: 1})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Record.DailyGoalTarget)
}

func TestRecordActivityConcurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.profiles.Get(ctx, "user-1")
	require.NoError(t, err)

	const writers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: 2})
			if !assert.NoError(t, err) {
				return
			}
			if res.GoalJustCompleted {
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	rec, err := env.activity.Today(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 40.0, rec.ActivityUnits)
	assert.Equal(t, 40, rec.QuestionsAnswered)
	assert.Equal(t, 1, completed, "exactly one caller observes the goal completion")
	assert.True(t, rec.GoalCompleted)
}

func TestActivityHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, d := range []string{day(-3), day(-1), day(0)} {
		recordOn(t, env, "user-1", d, models.ActivityDelta{QuestionsCorrect: 1})
	}

	records, err := env.activity.History(ctx, "user-1", day(-2), day(0))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, day(-1), records[0].ActivityDate)

	_, err = env.activity.History(ctx, "user-1", day(0), day(-2))
	assert.ErrorIs(t, err, models.ErrInvalidDate)

	_, err = env.activity.History(ctx, "user-1", "2020-01-01", day(0))
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}
