package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nareo/internal/database"
	"nareo/internal/models"
)

const activityColumns = `id, user_id, activity_date, questions_answered, questions_correct,
		quizzes_completed, quizzes_perfect, flashcards_hard, flashcards_good, flashcards_easy,
		activity_units, daily_goal_target, goal_completed, goal_completed_at, xp_earned,
		streak_freeze_used, created_at, updated_at`

// ActivityIncrement is what one RecordActivity call adds to a day
type ActivityIncrement struct {
	Delta  models.ActivityDelta
	Units  float64
	XP     int
	Target int // used only when the day's row is created
}

// ActivityRepository handles daily activity database operations
type ActivityRepository struct {
	db database.DBTX
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ActivityRepository) WithTx(tx *database.Tx) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

// Increment adds counters to the (user, date) row in one atomic statement,
// creating the row with the given goal target when absent
func (r *ActivityRepository) Increment(ctx context.Context, userID, date string, inc ActivityIncrement, now time.Time) error {
	d := inc.Delta
	_, err := r.db.ExecContext(ctx, r.db.GetDialect().UpsertActivityQuery(),
		userID, date,
		d.QuestionsAnswered(), d.QuestionsCorrect,
		d.QuizzesCompleted, d.QuizzesPerfect,
		d.FlashcardsHard, d.FlashcardsGood, d.FlashcardsEasy,
		inc.Units, inc.Target, inc.XP,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to increment daily activity: %w", err)
	}
	return nil
}

// CompleteGoal flips goal_completed for the day and adds the bonus XP, but
// only if the goal is reached and was not already completed. It reports
// whether this call performed the flip.
func (r *ActivityRepository) CompleteGoal(ctx context.Context, userID, date string, bonusXP int, now time.Time) (bool, error) {
	query := `
		UPDATE daily_activity
		SET goal_completed = TRUE, goal_completed_at = ?, xp_earned = xp_earned + ?, updated_at = ?
		WHERE user_id = ? AND activity_date = ?
		  AND goal_completed = FALSE
		  AND daily_goal_target > 0
		  AND activity_units >= daily_goal_target
	`
	result, err := r.db.ExecContext(ctx, query, now, bonusXP, now, userID, date)
	if err != nil {
		return false, fmt.Errorf("failed to complete daily goal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to complete daily goal: %w", err)
	}
	return rows == 1, nil
}

// Get retrieves the record for one day. It returns nil when the day has no record.
func (r *ActivityRepository) Get(ctx context.Context, userID, date string) (*models.DailyActivityRecord, error) {
	query := `SELECT ` + activityColumns + ` FROM daily_activity WHERE user_id = ? AND activity_date = ?`

	var rec models.DailyActivityRecord
	if err := r.db.GetContext(ctx, &rec, query, userID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}
	return &rec, nil
}

// ListRange returns records with from <= date <= to, oldest first
func (r *ActivityRepository) ListRange(ctx context.Context, userID, from, to string) ([]models.DailyActivityRecord, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM daily_activity
		WHERE user_id = ? AND activity_date >= ? AND activity_date <= ?
		ORDER BY activity_date
	`
	records := []models.DailyActivityRecord{}
	if err := r.db.SelectContext(ctx, &records, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list daily activity: %w", err)
	}
	return records, nil
}

// MarkFreeze records that a streak freeze covers the day
func (r *ActivityRepository) MarkFreeze(ctx context.Context, userID, date string, target int, now time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.GetDialect().UpsertFreezeDayQuery(), userID, date, target, now, now)
	if err != nil {
		return fmt.Errorf("failed to mark streak freeze: %w", err)
	}
	return nil
}

// Restore writes a full record as-is, replacing any existing row for the day
func (r *ActivityRepository) Restore(ctx context.Context, rec *models.DailyActivityRecord) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM daily_activity WHERE user_id = ? AND activity_date = ?`,
		rec.UserID, rec.ActivityDate); err != nil {
		return fmt.Errorf("failed to restore daily activity: %w", err)
	}

	query := `
		INSERT INTO daily_activity (user_id, activity_date, questions_answered, questions_correct,
			quizzes_completed, quizzes_perfect, flashcards_hard, flashcards_good, flashcards_easy,
			activity_units, daily_goal_target, goal_completed, goal_completed_at, xp_earned,
			streak_freeze_used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.UserID, rec.ActivityDate, rec.QuestionsAnswered, rec.QuestionsCorrect,
		rec.QuizzesCompleted, rec.QuizzesPerfect, rec.FlashcardsHard, rec.FlashcardsGood, rec.FlashcardsEasy,
		rec.ActivityUnits, rec.DailyGoalTarget, rec.GoalCompleted, rec.GoalCompletedAt, rec.XPEarned,
		rec.StreakFreezeUsed, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to restore daily activity: %w", err)
	}
	return nil
}
