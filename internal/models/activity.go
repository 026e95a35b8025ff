package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage and wire format of calendar dates
const DateLayout = "2006-01-02"

// GoalLevel is the daily effort a learner commits to
type GoalLevel string

const (
	GoalTranquille GoalLevel = "tranquille"
	GoalStandard   GoalLevel = "standard"
	GoalIntensif   GoalLevel = "intensif"
)

// ParseGoalLevel validates a goal level received from a client
func ParseGoalLevel(s string) (GoalLevel, error) {
	switch g := GoalLevel(strings.TrimSpace(s)); g {
	case GoalTranquille, GoalStandard, GoalIntensif:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGoalLevel, s)
	}
}

// ParseDate validates a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// LocalDate returns the calendar date of t in loc.
// Day boundaries are midnight in the learner's timezone.
func LocalDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ShiftDate moves a calendar date by n days
func ShiftDate(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}

// ActivityDelta is one increment of study activity.
// Flashcards rated "again" earn no goal credit and are not part of a delta.
type ActivityDelta struct {
	QuestionsCorrect   int `json:"questions_correct"`
	QuestionsIncorrect int `json:"questions_incorrect"`
	QuizzesCompleted   int `json:"quizzes_completed"`
	QuizzesPerfect     int `json:"quizzes_perfect"`
	FlashcardsHard     int `json:"flashcards_hard"`
	FlashcardsGood     int `json:"flashcards_good"`
	FlashcardsEasy     int `json:"flashcards_easy"`
}

// MaxDeltaCount caps each count in a single delta. It keeps unit and XP
// arithmetic far from integer overflow.
const MaxDeltaCount = 10000

// Validate rejects negative counts so units never decrease within a day,
// and counts above MaxDeltaCount
func (d ActivityDelta) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"questions_correct", d.QuestionsCorrect},
		{"questions_incorrect", d.QuestionsIncorrect},
		{"quizzes_completed", d.QuizzesCompleted},
		{"quizzes_perfect", d.QuizzesPerfect},
		{"flashcards_hard", d.FlashcardsHard},
		{"flashcards_good", d.FlashcardsGood},
		{"flashcards_easy", d.FlashcardsEasy},
	}
	for _, f := range fields {
		if f.value < 0 {
			return ValidationError{Field: f.name, Err: fmt.Errorf("%w: negative count %d", ErrInvalidDelta, f.value)}
		}
		if f.value > MaxDeltaCount {
			return ValidationError{Field: f.name, Err: fmt.Errorf("%w: count %d exceeds %d", ErrInvalidDelta, f.value, MaxDeltaCount)}
		}
	}
	if d.QuizzesPerfect > d.QuizzesCompleted {
		return ValidationError{Field: "quizzes_perfect", Err: fmt.Errorf("%w: more perfect quizzes than completed", ErrInvalidDelta)}
	}
	return nil
}

// IsZero reports whether the delta carries no activity
func (d ActivityDelta) IsZero() bool {
	return d == ActivityDelta{}
}

// QuestionsAnswered is the total number of quiz answers in the delta
func (d ActivityDelta) QuestionsAnswered() int {
	return d.QuestionsCorrect + d.QuestionsIncorrect
}

// FlashcardsReviewed counts flashcards that earn goal credit
func (d ActivityDelta) FlashcardsReviewed() int {
	return d.FlashcardsHard + d.FlashcardsGood + d.FlashcardsEasy
}

// DeltaForRating converts a single flashcard rating into an activity delta
func DeltaForRating(r Rating) ActivityDelta {
	switch r {
	case RatingHard:
		return ActivityDelta{FlashcardsHard: 1}
	case RatingGood:
		return ActivityDelta{FlashcardsGood: 1}
	case RatingEasy:
		return ActivityDelta{FlashcardsEasy: 1}
	default:
		return ActivityDelta{}
	}
}

// DailyActivityRecord accumulates one user's activity for one calendar date
type DailyActivityRecord struct {
	ID                int64      `json:"-" db:"id"`
	UserID            string     `json:"user_id" db:"user_id"`
	ActivityDate      string     `json:"activity_date" db:"activity_date"`
	QuestionsAnswered int        `json:"questions_answered" db:"questions_answered"`
	QuestionsCorrect  int        `json:"questions_correct" db:"questions_correct"`
	QuizzesCompleted  int        `json:"quizzes_completed" db:"quizzes_completed"`
	QuizzesPerfect    int        `json:"quizzes_perfect" db:"quizzes_perfect"`
	FlashcardsHard    int        `json:"flashcards_hard" db:"flashcards_hard"`
	FlashcardsGood    int        `json:"flashcards_good" db:"flashcards_good"`
	FlashcardsEasy    int        `json:"flashcards_easy" db:"flashcards_easy"`
	ActivityUnits     float64    `json:"activity_units" db:"activity_units"`
	DailyGoalTarget   int        `json:"daily_goal_target" db:"daily_goal_target"`
	GoalCompleted     bool       `json:"goal_completed" db:"goal_completed"`
	GoalCompletedAt   *time.Time `json:"goal_completed_at" db:"goal_completed_at"`
	XPEarned          int        `json:"xp_earned" db:"xp_earned"`
	StreakFreezeUsed  bool       `json:"streak_freeze_used" db:"streak_freeze_used"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// FlashcardsReviewed counts flashcards that earned goal credit that day
func (r *DailyActivityRecord) FlashcardsReviewed() int {
	return r.FlashcardsHard + r.FlashcardsGood + r.FlashcardsEasy
}

// ActivityResult is returned after recording activity
type ActivityResult struct {
	Record            DailyActivityRecord `json:"record"`
	UnitsAdded        float64             `json:"units_added"`
	XPAdded           int                 `json:"xp_added"`
	GoalBonusXP       int                 `json:"goal_bonus_xp"`
	GoalJustCompleted bool                `json:"goal_just_completed"`
}
