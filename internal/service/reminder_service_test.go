package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nareo/internal/logger"
	"nareo/internal/models"
	"nareo/internal/repository"
)

type fakeNotifier struct {
	enabled bool
	err     error
	sent    []string
	left    []float64
}

func (f *fakeNotifier) IsEnabled() bool { return f.enabled }

func (f *fakeNotifier) SendStreakReminder(_ context.Context, p models.Profile, _ models.StreakResult, unitsLeft float64) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p.UserID)
	f.left = append(f.left, unitsLeft)
	return nil
}

func newReminderEnv(t *testing.T, n Notifier) (*testEnv, *ReminderService) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewReminderService(repository.NewProfileRepository(env.db), env.streaks, env.activity, n, 18, logger.NewNop(), env.metrics)
	svc.now = env.clock.Now
	return env, svc
}

func optIn(t *testing.T, env *testEnv, userID, tz string) {
	t.Helper()
	enabled := true
	_, err := env.profiles.Update(context.Background(), userID, models.ProfileUpdate{
		Email:            strPtr(userID + "@example.com"),
		Timezone:         strPtr(tz),
		RemindersEnabled: &enabled,
	})
	require.NoError(t, err)
}

func TestReminderSendsToAtRiskLearners(t *testing.T) {
	n := &fakeNotifier{enabled: true}
	env, svc := newReminderEnv(t, n)
	ctx := context.Background()

	// at risk: yesterday done, today partly done
	optIn(t, env, "at-risk", "UTC")
	completeDay(t, env, "at-risk", day(-1))
	_, err := env.activity.RecordActivity(ctx, "at-risk", "", models.ActivityDelta{QuestionsCorrect: 5})
	require.NoError(t, err)

	// already done today
	optIn(t, env, "safe", "UTC")
	completeDay(t, env, "safe", day(-1))
	completeDay(t, env, "safe", day(0))

	// no streak to lose
	optIn(t, env, "idle", "UTC")

	// at risk, but it is not 18:00 in Tokyo
	optIn(t, env, "tokyo", "Asia/Tokyo")
	completeDay(t, env, "tokyo", day(0))

	sent, err := svc.SendDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"at-risk"}, n.sent)
	assert.Equal(t, []float64{30}, n.left)

	// once per day
	env.clock.Set(testNow.Add(10 * time.Minute))
	sent, err = svc.SendDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderDisabledNotifier(t *testing.T) {
	n := &fakeNotifier{enabled: false}
	env, svc := newReminderEnv(t, n)

	optIn(t, env, "user-1", "UTC")
	completeDay(t, env, "user-1", day(-1))

	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, n.sent)
}

func TestReminderSendFailureIsRetriedNextRun(t *testing.T) {
	n := &fakeNotifier{enabled: true, err: errors.New("ses throttled")}
	env, svc := newReminderEnv(t, n)

	optIn(t, env, "user-1", "UTC")
	completeDay(t, env, "user-1", day(-1))

	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	n.err = nil
	sent, err = svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestReminderNotResentAfterRestart(t *testing.T) {
	n := &fakeNotifier{enabled: true}
	env, svc := newReminderEnv(t, n)
	ctx := context.Background()

	optIn(t, env, "user-1", "UTC")
	completeDay(t, env, "user-1", day(-1))

	sent, err := svc.SendDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	p, err := repository.NewProfileRepository(env.db).Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, day(0), p.LastRemindedOn)

	// a fresh service has no memory of the first run
	restarted := NewReminderService(repository.NewProfileRepository(env.db), env.streaks, env.activity, n, 18, logger.NewNop(), env.metrics)
	restarted.now = env.clock.Now
	env.clock.Set(testNow.Add(20 * time.Minute))

	sent, err = restarted.SendDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, []string{"user-1"}, n.sent)
}
