package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nareo/internal/models"
)

func TestPriorities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reviewed, err := env.reviews.CreateItem(ctx, "user-1", CreateItemInput{CourseID: "bio", ChapterID: "cells"})
	require.NoError(t, err)
	_, err = env.reviews.CreateItem(ctx, "user-1", CreateItemInput{CourseID: "bio", ChapterID: "genes"})
	require.NoError(t, err)
	_, err = env.reviews.Review(ctx, "user-1", reviewed.ID, "good")
	require.NoError(t, err)

	ranked, err := env.priorities.Priorities(ctx, "user-1", models.ScopeChapter, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "genes", ranked[0].RefID)
	assert.Equal(t, models.ReasonNeverStarted, ranked[0].Reason)
	assert.Equal(t, "cells", ranked[1].RefID)

	ranked, err = env.priorities.Priorities(ctx, "user-1", models.ScopeCourse, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "bio", ranked[0].RefID)
	assert.Equal(t, 1, ranked[0].DueCount, "only the unreviewed item is due")

	ranked, err = env.priorities.Priorities(ctx, "user-2", models.ScopeItem, 0)
	require.NoError(t, err)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestOverview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.reviews.CreateItem(ctx, "user-1", CreateItemInput{CourseID: "bio", ChapterID: "cells"})
	require.NoError(t, err)
	completeDay(t, env, "user-1", day(-1))
	_, err = env.activity.RecordActivity(ctx, "user-1", "", models.ActivityDelta{QuestionsCorrect: 7})
	require.NoError(t, err)

	ov, err := env.overview.Overview(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", ov.Profile.UserID)
	assert.Equal(t, 1, ov.Streak.CurrentStreak)
	assert.True(t, ov.Streak.AtRisk)
	assert.Equal(t, 7.0, ov.Today.ActivityUnits)
	assert.InDelta(t, 0.2, ov.GoalProgress, 1e-9)
	assert.Equal(t, 1, ov.DueCount)
	require.Len(t, ov.Priorities, 1)
	assert.Equal(t, "cells", ov.Priorities[0].RefID)
}
