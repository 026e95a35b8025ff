package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN makes sure DATETIME columns scan into time.Time
func (d *MySQLDialect) DSN(config DialectConfig) string {
	if strings.Contains(config.URL, "parseTime=") {
		return config.URL
	}
	sep := "?"
	if strings.Contains(config.URL, "?") {
		sep = "&"
	}
	return config.URL + sep + "parseTime=true"
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	// Configure connection pool for MySQL
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) UpsertActivityQuery() string {
	return `INSERT INTO daily_activity (` + activityColumns + `) VALUES ` + activityValues + `
		ON DUPLICATE KEY UPDATE
			questions_answered = questions_answered + VALUES(questions_answered),
			questions_correct = questions_correct + VALUES(questions_correct),
			quizzes_completed = quizzes_completed + VALUES(quizzes_completed),
			quizzes_perfect = quizzes_perfect + VALUES(quizzes_perfect),
			flashcards_hard = flashcards_hard + VALUES(flashcards_hard),
			flashcards_good = flashcards_good + VALUES(flashcards_good),
			flashcards_easy = flashcards_easy + VALUES(flashcards_easy),
			activity_units = activity_units + VALUES(activity_units),
			xp_earned = xp_earned + VALUES(xp_earned),
			daily_goal_target = IF(daily_goal_target > 0, daily_goal_target, VALUES(daily_goal_target)),
			updated_at = VALUES(updated_at)
	`
}

func (d *MySQLDialect) UpsertFreezeDayQuery() string {
	return freezeInsert + `
		ON DUPLICATE KEY UPDATE
			streak_freeze_used = TRUE,
			updated_at = VALUES(updated_at)
	`
}

func (d *MySQLDialect) InsertProfileIfAbsentQuery() string {
	return `INSERT IGNORE INTO profiles (` + profileColumns + `) VALUES ` + profileValues
}
