package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nareo/internal/models"
)

func TestUnits(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name  string
		delta models.ActivityDelta
		want  float64
	}{
		{"empty", models.ActivityDelta{}, 0},
		{"quiz answers count fully", models.ActivityDelta{QuestionsCorrect: 3, QuestionsIncorrect: 2}, 5},
		{"flashcards count half", models.ActivityDelta{FlashcardsHard: 1, FlashcardsGood: 2, FlashcardsEasy: 1}, 2},
		{"quizzes completed add nothing by themselves", models.ActivityDelta{QuizzesCompleted: 1, QuizzesPerfect: 1}, 0},
		{"mixed", models.ActivityDelta{QuestionsCorrect: 1, FlashcardsGood: 1}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, p.Units(tt.delta), 1e-9)
		})
	}
}

func TestXP(t *testing.T) {
	p := DefaultPolicy()

	got := p.XP(models.ActivityDelta{
		QuestionsCorrect:   2,
		QuestionsIncorrect: 1,
		FlashcardsEasy:     2,
		QuizzesCompleted:   1,
		QuizzesPerfect:     1,
	})
	assert.Equal(t, 2*10+2+2*5+25, got)
}

func TestGoalTarget(t *testing.T) {
	p := DefaultPolicy()

	target, err := p.GoalTarget(models.GoalTranquille)
	require.NoError(t, err)
	assert.Equal(t, 20, target)

	target, err = p.GoalTarget(models.GoalIntensif)
	require.NoError(t, err)
	assert.Equal(t, 50, target)

	_, err = p.GoalTarget(models.GoalLevel("extreme"))
	assert.ErrorIs(t, err, models.ErrInvalidGoalLevel)
}

func TestGoalBonus(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 50, p.GoalBonus(100))
	assert.Equal(t, 0, p.GoalBonus(0))

	p.GoalXPMultiplier = 1
	assert.Equal(t, 0, p.GoalBonus(100))
}

func TestGoalReachedAndProgress(t *testing.T) {
	rec := models.DailyActivityRecord{DailyGoalTarget: 20, ActivityUnits: 19.5}
	assert.False(t, GoalReached(rec))
	assert.InDelta(t, 0.975, Progress(rec), 1e-9)

	rec.ActivityUnits = 20
	assert.True(t, GoalReached(rec))

	rec.ActivityUnits = 31
	assert.Equal(t, 1.0, Progress(rec))

	assert.False(t, GoalReached(models.DailyActivityRecord{}))
}
