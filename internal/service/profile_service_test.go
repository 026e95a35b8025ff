package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nareo/internal/models"
)

func strPtr(s string) *string { return &s }

func TestProfileDefaults(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.profiles.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.GoalStandard, p.GoalLevel)
	assert.Equal(t, "UTC", p.Timezone)
	assert.Equal(t, 1, p.FreezesAvailable)
	assert.False(t, p.RemindersEnabled)
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enabled := true

	p, err := env.profiles.Update(ctx, "user-1", models.ProfileUpdate{
		GoalLevel:        strPtr("intensif"),
		Timezone:         strPtr("Europe/Paris"),
		Email:            strPtr("ada@example.com"),
		RemindersEnabled: &enabled,
	})
	require.NoError(t, err)
	assert.Equal(t, models.GoalIntensif, p.GoalLevel)
	assert.Equal(t, "Europe/Paris", p.Timezone)
	assert.True(t, p.RemindersEnabled)

	tests := []struct {
		name  string
		upd   models.ProfileUpdate
		field string
		kind  error
	}{
		{"unknown goal level", models.ProfileUpdate{GoalLevel: strPtr("extreme")}, "goal_level", models.ErrInvalidGoalLevel},
		{"unknown timezone", models.ProfileUpdate{Timezone: strPtr("Mars/Olympus")}, "timezone", models.ErrInvalidTimezone},
		{"empty timezone", models.ProfileUpdate{Timezone: strPtr("")}, "timezone", models.ErrInvalidTimezone},
		{"bad email", models.ProfileUpdate{Email: strPtr("not an email")}, "email", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.profiles.Update(ctx, "user-1", tt.upd)
			var verr models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			}
		})
	}

	// failed updates leave the profile untouched
	p, err = env.profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.GoalIntensif, p.GoalLevel)
	assert.Equal(t, "ada@example.com", p.Email)
}
