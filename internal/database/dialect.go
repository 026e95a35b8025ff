package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertActivityQuery inserts a daily activity row or adds the
	// given counters to the existing one, in a single statement
	UpsertActivityQuery() string

	// UpsertFreezeDayQuery marks a day as covered by a streak freeze,
	// creating the row when the day has no activity
	UpsertFreezeDayQuery() string

	// InsertProfileIfAbsentQuery creates a profile row unless one exists
	InsertProfileIfAbsentQuery() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// rebind converts ? placeholders to the bind style of the driver
func rebind(driverName, query string) string {
	return sqlx.Rebind(sqlx.BindType(driverName), query)
}

// activityColumns lists the columns written by UpsertActivityQuery, in order
const activityColumns = `user_id, activity_date, questions_answered, questions_correct,
			quizzes_completed, quizzes_perfect, flashcards_hard, flashcards_good, flashcards_easy,
			activity_units, daily_goal_target, xp_earned, goal_completed, streak_freeze_used,
			created_at, updated_at`

const activityValues = `(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, FALSE, ?, ?)`

// onConflictActivityUpdate is shared by SQLite and PostgreSQL, which both
// support INSERT ... ON CONFLICT with the excluded pseudo-table
const onConflictActivityUpdate = `
		ON CONFLICT (user_id, activity_date) DO UPDATE SET
			questions_answered = daily_activity.questions_answered + excluded.questions_answered,
			questions_correct = daily_activity.questions_correct + excluded.questions_correct,
			quizzes_completed = daily_activity.quizzes_completed + excluded.quizzes_completed,
			quizzes_perfect = daily_activity.quizzes_perfect + excluded.quizzes_perfect,
			flashcards_hard = daily_activity.flashcards_hard + excluded.flashcards_hard,
			flashcards_good = daily_activity.flashcards_good + excluded.flashcards_good,
			flashcards_easy = daily_activity.flashcards_easy + excluded.flashcards_easy,
			activity_units = daily_activity.activity_units + excluded.activity_units,
			xp_earned = daily_activity.xp_earned + excluded.xp_earned,
			daily_goal_target = CASE WHEN daily_activity.daily_goal_target > 0
				THEN daily_activity.daily_goal_target ELSE excluded.daily_goal_target END,
			updated_at = excluded.updated_at
	`

const onConflictFreezeUpdate = `
		ON CONFLICT (user_id, activity_date) DO UPDATE SET
			streak_freeze_used = TRUE,
			updated_at = excluded.updated_at
	`

const freezeInsert = `
		INSERT INTO daily_activity (user_id, activity_date, daily_goal_target, streak_freeze_used, created_at, updated_at)
		VALUES (?, ?, ?, TRUE, ?, ?)
	`

const profileColumns = `user_id, goal_level, timezone, reminders_enabled, freezes_available,
			longest_streak, last_milestone, created_at, updated_at`

const profileValues = `(?, ?, ?, ?, ?, 0, 0, ?, ?)`
