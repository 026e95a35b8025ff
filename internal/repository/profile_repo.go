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

const profileColumns = `user_id, email, goal_level, timezone, reminders_enabled, freezes_available,
		longest_streak, last_milestone, last_freeze_grant_at, last_reminded_on, created_at, updated_at`

// ErrProfileNotFound is returned when a user has no profile row yet
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository handles per-user study settings and streak bookkeeping
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ProfileRepository) WithTx(tx *database.Tx) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// GetOrCreate loads a profile, creating it from defaults on first use
func (r *ProfileRepository) GetOrCreate(ctx context.Context, defaults models.Profile, now time.Time) (*models.Profile, error) {
	p, err := r.Get(ctx, defaults.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, r.db.GetDialect().InsertProfileIfAbsentQuery(),
		defaults.UserID, defaults.GoalLevel, defaults.Timezone, defaults.RemindersEnabled,
		defaults.FreezesAvailable, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return r.Get(ctx, defaults.UserID)
}

// Get retrieves a profile by user ID
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpdateSettings writes the user-editable fields of a profile
func (r *ProfileRepository) UpdateSettings(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET email = ?, goal_level = ?, timezone = ?, reminders_enabled = ?, updated_at = ?
		WHERE user_id = ?
	`
	_, err := r.db.ExecContext(ctx, query, p.Email, p.GoalLevel, p.Timezone, p.RemindersEnabled, p.UpdatedAt, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ConsumeFreeze takes one streak freeze if any is left. It reports false
// when none was available.
func (r *ProfileRepository) ConsumeFreeze(ctx context.Context, userID string, now time.Time) (bool, error) {
	query := `
		UPDATE profiles
		SET freezes_available = freezes_available - 1, updated_at = ?
		WHERE user_id = ? AND freezes_available > 0
	`
	result, err := r.db.ExecContext(ctx, query, now, userID)
	if err != nil {
		return false, fmt.Errorf("failed to consume streak freeze: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to consume streak freeze: %w", err)
	}
	return rows == 1, nil
}

// GrantFreezes adds one freeze to every profile below maxFreezes whose last
// grant is older than dueBefore. It returns the number of profiles credited.
func (r *ProfileRepository) GrantFreezes(ctx context.Context, maxFreezes int, dueBefore, now time.Time) (int64, error) {
	query := `
		UPDATE profiles
		SET freezes_available = freezes_available + 1, last_freeze_grant_at = ?, updated_at = ?
		WHERE freezes_available < ?
		  AND (last_freeze_grant_at IS NULL OR last_freeze_grant_at <= ?)
	`
	result, err := r.db.ExecContext(ctx, query, now, now, maxFreezes, dueBefore)
	if err != nil {
		return 0, fmt.Errorf("failed to grant streak freezes: %w", err)
	}
	return result.RowsAffected()
}

// RaiseLongestStreak stores longest if it beats the stored value
func (r *ProfileRepository) RaiseLongestStreak(ctx context.Context, userID string, longest int, now time.Time) error {
	query := `UPDATE profiles SET longest_streak = ?, updated_at = ? WHERE user_id = ? AND longest_streak < ?`
	if _, err := r.db.ExecContext(ctx, query, longest, now, userID, longest); err != nil {
		return fmt.Errorf("failed to update longest streak: %w", err)
	}
	return nil
}

// AdvanceMilestone moves the milestone watermark from -> to. It reports false
// when another request already moved it.
func (r *ProfileRepository) AdvanceMilestone(ctx context.Context, userID string, from, to int, now time.Time) (bool, error) {
	query := `UPDATE profiles SET last_milestone = ?, updated_at = ? WHERE user_id = ? AND last_milestone = ?`
	result, err := r.db.ExecContext(ctx, query, to, now, userID, from)
	if err != nil {
		return false, fmt.Errorf("failed to advance milestone: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to advance milestone: %w", err)
	}
	return rows == 1, nil
}

// ClaimReminder marks date as the user's reminder day. It reports false
// when a reminder for date was already claimed, possibly by another process.
func (r *ProfileRepository) ClaimReminder(ctx context.Context, userID, date string, now time.Time) (bool, error) {
	query := `UPDATE profiles SET last_reminded_on = ?, updated_at = ? WHERE user_id = ? AND last_reminded_on <> ?`
	result, err := r.db.ExecContext(ctx, query, date, now, userID, date)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}
	return rows == 1, nil
}

// ReleaseReminder undoes a claim for date, restoring the previous value, so
// a failed send is retried on the next run
func (r *ProfileRepository) ReleaseReminder(ctx context.Context, userID, date, previous string, now time.Time) error {
	query := `UPDATE profiles SET last_reminded_on = ?, updated_at = ? WHERE user_id = ? AND last_reminded_on = ?`
	if _, err := r.db.ExecContext(ctx, query, previous, now, userID, date); err != nil {
		return fmt.Errorf("failed to release reminder: %w", err)
	}
	return nil
}

// ListAll returns every profile ordered by user ID
func (r *ProfileRepository) ListAll(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, `SELECT `+profileColumns+` FROM profiles ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// ListReminderRecipients returns profiles that opted into reminder e-mails
func (r *ProfileRepository) ListReminderRecipients(ctx context.Context) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE reminders_enabled = TRUE AND email <> '' ORDER BY user_id`
	profiles := []models.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list reminder recipients: %w", err)
	}
	return profiles, nil
}

// Restore writes a full profile as-is, replacing any existing row
func (r *ProfileRepository) Restore(ctx context.Context, p *models.Profile) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, p.UserID); err != nil {
		return fmt.Errorf("failed to restore profile: %w", err)
	}
	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Email, p.GoalLevel, p.Timezone, p.RemindersEnabled, p.FreezesAvailable,
		p.LongestStreak, p.LastMilestone, p.LastFreezeGrantAt, p.LastRemindedOn, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to restore profile: %w", err)
	}
	return nil
}
