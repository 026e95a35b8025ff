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

const itemColumns = `id, user_id, course_id, chapter_id, kind, ease_factor, interval_days,
		next_review_at, review_count, correct_count, incorrect_count, last_rating,
		mastery_level, archived, last_reviewed_at, archived_at, version, created_at, updated_at`

// ItemRepository handles reviewable item database operations
type ItemRepository struct {
	db database.DBTX
}

// NewItemRepository creates a new item repository
func NewItemRepository(db database.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ItemRepository) WithTx(tx *database.Tx) *ItemRepository {
	return &ItemRepository{db: tx}
}

// Create inserts a new item
func (r *ItemRepository) Create(ctx context.Context, item *models.ReviewableItem) error {
	query := `
		INSERT INTO reviewable_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.CourseID, item.ChapterID, item.Kind,
		item.EaseFactor, item.IntervalDays, item.NextReviewAt,
		item.ReviewCount, item.CorrectCount, item.IncorrectCount, item.LastRating,
		item.Mastery, item.Archived, item.LastReviewedAt, item.ArchivedAt,
		item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves one item of a user
func (r *ItemRepository) GetByID(ctx context.Context, userID, id string) (*models.ReviewableItem, error) {
	query := `SELECT ` + itemColumns + ` FROM reviewable_items WHERE user_id = ? AND id = ?`

	var item models.ReviewableItem
	if err := r.db.GetContext(ctx, &item, query, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// ListByUser returns every item of a user, oldest first
func (r *ItemRepository) ListByUser(ctx context.Context, userID string, includeArchived bool) ([]models.ReviewableItem, error) {
	query := `SELECT ` + itemColumns + ` FROM reviewable_items WHERE user_id = ?`
	if !includeArchived {
		query += ` AND archived = FALSE`
	}
	query += ` ORDER BY created_at, id`

	items := []models.ReviewableItem{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// ListDue returns unarchived items whose next review is at or before now.
// Never-scheduled items come first, then by next review time.
func (r *ItemRepository) ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]models.ReviewableItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM reviewable_items
		WHERE user_id = ? AND archived = FALSE
		  AND (next_review_at IS NULL OR next_review_at <= ?)
		ORDER BY CASE WHEN next_review_at IS NULL THEN 0 ELSE 1 END, next_review_at, id
		LIMIT ?
	`
	items := []models.ReviewableItem{}
	if err := r.db.SelectContext(ctx, &items, query, userID, now, limit); err != nil {
		return nil, fmt.Errorf("failed to list due items: %w", err)
	}
	return items, nil
}

// Update writes the scheduling state of an item if its stored version still
// equals expectedVersion, and bumps the version. A lost race returns
// ErrConcurrentModification.
func (r *ItemRepository) Update(ctx context.Context, item *models.ReviewableItem, expectedVersion int64) error {
	query := `
		UPDATE reviewable_items SET
			ease_factor = ?, interval_days = ?, next_review_at = ?,
			review_count = ?, correct_count = ?, incorrect_count = ?, last_rating = ?,
			mastery_level = ?, archived = ?, last_reviewed_at = ?, archived_at = ?,
			version = ?, updated_at = ?
		WHERE user_id = ? AND id = ? AND version = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		item.EaseFactor, item.IntervalDays, item.NextReviewAt,
		item.ReviewCount, item.CorrectCount, item.IncorrectCount, item.LastRating,
		item.Mastery, item.Archived, item.LastReviewedAt, item.ArchivedAt,
		expectedVersion+1, item.UpdatedAt,
		item.UserID, item.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, item.UserID, item.ID); err != nil {
			return err
		}
		return models.ErrConcurrentModification
	}

	item.Version = expectedVersion + 1
	return nil
}

// Delete removes an item
func (r *ItemRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviewable_items WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if rows == 0 {
		return models.ErrItemNotFound
	}
	return nil
}

// DeleteByUser removes all items of a user and returns how many were removed
func (r *ItemRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviewable_items WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}
	return result.RowsAffected()
}
