package activity

import (
	"fmt"
	"math"

	"nareo/internal/models"
)

// Policy holds the weights used to turn raw activity into units and XP.
// The numbers are a configuration surface, not invariants.
type Policy struct {
	GoalTargets map[models.GoalLevel]int `yaml:"goal_targets"`

	QuestionUnits  float64 `yaml:"question_units"`
	FlashcardUnits float64 `yaml:"flashcard_units"`

	CorrectAnswerXP   int     `yaml:"correct_answer_xp"`
	IncorrectAnswerXP int     `yaml:"incorrect_answer_xp"`
	FlashcardXP       int     `yaml:"flashcard_xp"`
	PerfectQuizXP     int     `yaml:"perfect_quiz_xp"`
	GoalXPMultiplier  float64 `yaml:"goal_xp_multiplier"`
}

// DefaultPolicy returns the default unit weights and goal targets
func DefaultPolicy() Policy {
	return Policy{
		GoalTargets: map[models.GoalLevel]int{
			models.GoalTranquille: 20,
			models.GoalStandard:   35,
			models.GoalIntensif:   50,
		},
		QuestionUnits:     1.0,
		FlashcardUnits:    0.5,
		CorrectAnswerXP:   10,
		IncorrectAnswerXP: 2,
		FlashcardXP:       5,
		PerfectQuizXP:     25,
		GoalXPMultiplier:  1.5,
	}
}

// Units converts a delta into activity units.
// A quiz question is worth a full unit, a credited flashcard a fraction of one.
func (p Policy) Units(d models.ActivityDelta) float64 {
	return float64(d.QuestionsAnswered())*p.QuestionUnits + float64(d.FlashcardsReviewed())*p.FlashcardUnits
}

// XP returns the experience points earned by a delta, before any goal bonus
func (p Policy) XP(d models.ActivityDelta) int {
	return d.QuestionsCorrect*p.CorrectAnswerXP +
		d.QuestionsIncorrect*p.IncorrectAnswerXP +
		d.FlashcardsReviewed()*p.FlashcardXP +
		d.QuizzesPerfect*p.PerfectQuizXP
}

// GoalTarget returns the daily unit target for a goal level
func (p Policy) GoalTarget(level models.GoalLevel) (int, error) {
	target, ok := p.GoalTargets[level]
	if !ok || target <= 0 {
		return 0, fmt.Errorf("%w: no target for %q", models.ErrInvalidGoalLevel, level)
	}
	return target, nil
}

// GoalBonus is the one-off XP granted when the daily goal is reached,
// computed from the XP earned that day so far.
func (p Policy) GoalBonus(dayXP int) int {
	if p.GoalXPMultiplier <= 1 || dayXP <= 0 {
		return 0
	}
	return int(math.Round(float64(dayXP) * (p.GoalXPMultiplier - 1)))
}

// GoalReached reports whether a record's units meet its target
func GoalReached(rec models.DailyActivityRecord) bool {
	return rec.DailyGoalTarget > 0 && rec.ActivityUnits >= float64(rec.DailyGoalTarget)
}

// Progress returns the share of the daily goal reached, capped at 1
func Progress(rec models.DailyActivityRecord) float64 {
	if rec.DailyGoalTarget <= 0 {
		return 0
	}
	return math.Min(1, rec.ActivityUnits/float64(rec.DailyGoalTarget))
}
