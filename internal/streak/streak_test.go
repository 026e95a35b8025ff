package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nareo/internal/models"
)

func day(date string, completed, frozen bool) models.DailyActivityRecord {
	return models.DailyActivityRecord{
		UserID:           "user-1",
		ActivityDate:     date,
		GoalCompleted:    completed,
		StreakFreezeUsed: frozen,
	}
}

func TestCheckFiveCompletedDays(t *testing.T) {
	records := []models.DailyActivityRecord{
		day("2026-05-01", true, false),
		day("2026-05-02", true, false),
		day("2026-05-03", true, false),
		day("2026-05-04", true, false),
		day("2026-05-05", true, false),
	}

	res, err := Check(records, "2026-05-05", 0)
	require.NoError(t, err)

	assert.Equal(t, 5, res.CurrentStreak)
	assert.Equal(t, 5, res.LongestStreak)
	assert.True(t, res.JustExtended)
	assert.False(t, res.JustLost)
	assert.False(t, res.AtRisk)
}

func TestCheckBrokenDay(t *testing.T) {
	records := []models.DailyActivityRecord{
		day("2026-05-05", true, false),
		day("2026-05-04", true, false),
		day("2026-05-03", false, false),
		day("2026-05-02", true, false),
		day("2026-05-01", true, false),
	}

	res, err := Check(records, "2026-05-05", 5)
	require.NoError(t, err)

	assert.Equal(t, 2, res.CurrentStreak)
	assert.Equal(t, 2, res.PreviousStreakLost, "days 1 and 2, before the break")
	assert.Equal(t, 5, res.LongestStreak)
	assert.False(t, res.JustLost)
}

func TestCheckFreezeCoversMissedDay(t *testing.T) {
	records := []models.DailyActivityRecord{
		day("2026-05-01", true, false),
		day("2026-05-02", false, true),
		day("2026-05-03", true, false),
	}

	res, err := Check(records, "2026-05-03", 0)
	require.NoError(t, err)

	assert.Equal(t, 3, res.CurrentStreak)
	assert.Equal(t, 0, res.PreviousStreakLost)
}

func TestCheckTodayInProgressIsAtRisk(t *testing.T) {
	records := []models.DailyActivityRecord{
		day("2026-05-02", true, false),
		day("2026-05-03", true, false),
		day("2026-05-04", false, false),
	}

	res, err := Check(records, "2026-05-04", 0)
	require.NoError(t, err)

	assert.Equal(t, 2, res.CurrentStreak)
	assert.True(t, res.AtRisk)
	assert.False(t, res.JustExtended)
	assert.False(t, res.JustLost)
}

func TestCheckMissedYesterdayLosesStreak(t *testing.T) {
	records := []models.DailyActivityRecord{
		day("2026-05-01", true, false),
		day("2026-05-02", true, false),
		day("2026-05-03", true, false),
		day("2026-05-05", false, false),
	}

	res, err := Check(records, "2026-05-05", 0)
	require.NoError(t, err)

	assert.Equal(t, 0, res.CurrentStreak)
	assert.Equal(t, 3, res.PreviousStreakLost)
	assert.True(t, res.JustLost)
	assert.False(t, res.JustExtended)
	assert.False(t, res.AtRisk)
	assert.Equal(t, 3, res.LongestStreak)
}

func TestCheckNeverBothLostAndExtended(t *testing.T) {
	histories := [][]models.DailyActivityRecord{
		nil,
		{day("2026-05-05", true, false)},
		{day("2026-05-03", true, false), day("2026-05-05", true, false)},
		{day("2026-05-03", true, false), day("2026-05-05", false, false)},
		{day("2026-05-04", false, true), day("2026-05-05", false, false)},
	}

	for _, h := range histories {
		res, err := Check(h, "2026-05-05", 0)
		require.NoError(t, err)
		assert.False(t, res.JustLost && res.JustExtended)
	}
}

func TestCheckNoHistory(t *testing.T) {
	res, err := Check(nil, "2026-05-05", 4)
	require.NoError(t, err)

	assert.Equal(t, 0, res.CurrentStreak)
	assert.Equal(t, 4, res.LongestStreak)
	assert.False(t, res.AtRisk)
}

func TestCheckInvalidToday(t *testing.T) {
	_, err := Check(nil, "05/05/2026", 0)
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestNewMilestones(t *testing.T) {
	thresholds := []int{100, 3, 7, 14, 30}

	assert.Equal(t, []int{3, 7}, NewMilestones(8, 0, thresholds))
	assert.Equal(t, []int{14}, NewMilestones(14, 7, thresholds))
	assert.Empty(t, NewMilestones(14, 14, thresholds))
	assert.Empty(t, NewMilestones(2, 0, thresholds))
}

func TestCheckFreeze(t *testing.T) {
	completed := day("2026-05-03", true, false)
	frozen := day("2026-05-03", false, true)
	missed := day("2026-05-03", false, false)

	assert.NoError(t, CheckFreeze(nil, "2026-05-03", "2026-05-04", 7))
	assert.NoError(t, CheckFreeze(&missed, "2026-05-03", "2026-05-04", 7))
	assert.ErrorIs(t, CheckFreeze(&completed, "2026-05-03", "2026-05-04", 7), models.ErrFreezeNotApplicable)
	assert.ErrorIs(t, CheckFreeze(&frozen, "2026-05-03", "2026-05-04", 7), models.ErrFreezeNotApplicable)
	assert.ErrorIs(t, CheckFreeze(nil, "2026-05-04", "2026-05-04", 7), models.ErrFreezeNotApplicable)
	assert.ErrorIs(t, CheckFreeze(nil, "2026-04-01", "2026-05-04", 7), models.ErrFreezeNotApplicable)
	assert.ErrorIs(t, CheckFreeze(nil, "yesterday", "2026-05-04", 7), models.ErrInvalidDate)
}
