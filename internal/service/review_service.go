package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"nareo/internal/logger"
	"nareo/internal/metrics"
	"nareo/internal/models"
	"nareo/internal/repository"
	"nareo/internal/srs"
	"nareo/internal/validation"
)

// DefaultDueLimit caps due lists when the caller gives no limit
const DefaultDueLimit = 50

// CreateItemInput describes a new reviewable item. ID is generated when empty.
type CreateItemInput struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	ChapterID string `json:"chapter_id"`
	Kind      string `json:"kind"`
}

// ReviewResult is the outcome of one review
type ReviewResult struct {
	Item     models.ReviewableItem  `json:"item"`
	Activity *models.ActivityResult `json:"activity,omitempty"`
}

// ReviewService schedules item reviews and keeps item state
type ReviewService struct {
	items     *repository.ItemRepository
	activity  *ActivityService
	scheduler *srs.Scheduler
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(items *repository.ItemRepository, activity *ActivityService, scheduler *srs.Scheduler, log *logger.Logger, m *metrics.Metrics) *ReviewService {
	return &ReviewService{
		items:     items,
		activity:  activity,
		scheduler: scheduler,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// CreateItem registers a new unreviewed item for the user
func (s *ReviewService) CreateItem(ctx context.Context, userID string, in CreateItemInput) (*models.ReviewableItem, error) {
	courseID := strings.TrimSpace(in.CourseID)
	chapterID := strings.TrimSpace(in.ChapterID)
	id := strings.TrimSpace(in.ID)
	if err := validation.ValidateIdentifier("course_id", courseID, true); err != nil {
		return nil, err
	}
	if err := validation.ValidateIdentifier("chapter_id", chapterID, false); err != nil {
		return nil, err
	}
	if err := validation.ValidateIdentifier("id", id, false); err != nil {
		return nil, err
	}
	kind, err := models.ParseItemKind(in.Kind)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	item := models.NewReviewableItem(id, userID, courseID, chapterID, kind, s.now().UTC())
	if err := s.items.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem returns one item of the user
func (s *ReviewService) GetItem(ctx context.Context, userID, itemID string) (*models.ReviewableItem, error) {
	return s.items.GetByID(ctx, userID, itemID)
}

// Preview returns the interval each rating would produce for the item now
func (s *ReviewService) Preview(item models.ReviewableItem) (map[models.Rating]int, error) {
	return s.scheduler.Preview(item, s.now().UTC())
}

// ListItems returns the user's items, or only the due ones
func (s *ReviewService) ListItems(ctx context.Context, userID string, dueOnly bool, limit int) ([]models.ReviewableItem, error) {
	if !dueOnly {
		return s.items.ListByUser(ctx, userID, true)
	}
	if limit <= 0 {
		limit = DefaultDueLimit
	}
	return s.items.ListDue(ctx, userID, s.now().UTC(), limit)
}

// DeleteItem removes an item
func (s *ReviewService) DeleteItem(ctx context.Context, userID, itemID string) error {
	return s.items.Delete(ctx, userID, itemID)
}

// Review applies a rating to an item and stores the new schedule. The
// rating is validated before anything is loaded or written. A concurrent
// update of the same item yields ErrConcurrentModification.
//
// Flashcard reviews also count toward the day's activity; a failure there
// is logged and does not undo the review.
func (s *ReviewService) Review(ctx context.Context, userID, itemID, rawRating string) (*ReviewResult, error) {
	rating, err := models.ParseRating(rawRating)
	if err != nil {
		return nil, models.ValidationError{Field: "rating", Err: err}
	}

	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	updated, err := s.scheduler.RecordReview(*item, rating, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, &updated, item.Version); err != nil {
		if errors.Is(err, models.ErrConcurrentModification) {
			s.metrics.Conflicts.Inc()
		}
		return nil, err
	}
	s.metrics.Reviews.WithLabelValues(string(rating)).Inc()

	result := &ReviewResult{Item: updated}
	if updated.Kind != models.ItemKindFlashcard {
		return result, nil
	}
	delta := models.DeltaForRating(rating)
	if delta.IsZero() {
		return result, nil
	}

	act, err := s.activity.RecordActivity(ctx, userID, "", delta)
	if err != nil {
		s.log.Error("Failed to record review activity", "user_id", userID, "item_id", itemID, "error", err)
		return result, nil
	}
	result.Activity = &act
	return result, nil
}

// Archive marks an item as acquired by the user. Archived items report
// mastered and drop out of due lists and priorities.
func (s *ReviewService) Archive(ctx context.Context, userID, itemID string) (*models.ReviewableItem, error) {
	return s.setArchived(ctx, userID, itemID, true)
}

// Unarchive returns an item to the review rotation
func (s *ReviewService) Unarchive(ctx context.Context, userID, itemID string) (*models.ReviewableItem, error) {
	return s.setArchived(ctx, userID, itemID, false)
}

func (s *ReviewService) setArchived(ctx context.Context, userID, itemID string, archived bool) (*models.ReviewableItem, error) {
	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Archived == archived {
		return item, nil
	}

	now := s.now().UTC()
	updated := *item
	updated.Archived = archived
	updated.ArchivedAt = nil
	if archived {
		updated.ArchivedAt = &now
	}
	updated.Mastery = srs.Classify(updated)
	updated.UpdatedAt = now

	if err := s.items.Update(ctx, &updated, item.Version); err != nil {
		if errors.Is(err, models.ErrConcurrentModification) {
			s.metrics.Conflicts.Inc()
		}
		return nil, err
	}
	return &updated, nil
}
