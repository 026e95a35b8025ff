package models

import (
	"fmt"
	"strings"
	"time"
)

// Rating is the self-assessment a learner gives a flashcard
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// ParseRating validates a rating received from a client
func ParseRating(s string) (Rating, error) {
	switch r := Rating(strings.TrimSpace(s)); r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
}

// IsCorrect reports whether the rating counts as a correct recall.
// Only "again" is a miss.
func (r Rating) IsCorrect() bool {
	return r == RatingHard || r == RatingGood || r == RatingEasy
}

// MasteryLevel is the coarse bucket derived from an item's review history
type MasteryLevel string

const (
	MasteryNotStarted MasteryLevel = "not_started"
	MasteryLearning   MasteryLevel = "learning"
	MasteryAcquired   MasteryLevel = "acquired"
	MasteryMastered   MasteryLevel = "mastered"
)

// Weight orders mastery levels from 0 (not started) to 3 (mastered)
func (m MasteryLevel) Weight() int {
	switch m {
	case MasteryLearning:
		return 1
	case MasteryAcquired:
		return 2
	case MasteryMastered:
		return 3
	default:
		return 0
	}
}

// MasteryFromWeight is the inverse of Weight, clamping out-of-range values
func MasteryFromWeight(w int) MasteryLevel {
	switch {
	case w <= 0:
		return MasteryNotStarted
	case w == 1:
		return MasteryLearning
	case w == 2:
		return MasteryAcquired
	default:
		return MasteryMastered
	}
}

// ItemKind distinguishes flashcards from chapter quiz units
type ItemKind string

const (
	ItemKindFlashcard   ItemKind = "flashcard"
	ItemKindChapterQuiz ItemKind = "chapter_quiz"
)

// ParseItemKind validates an item kind, defaulting to flashcard when empty
func ParseItemKind(s string) (ItemKind, error) {
	switch k := ItemKind(strings.TrimSpace(s)); k {
	case "":
		return ItemKindFlashcard, nil
	case ItemKindFlashcard, ItemKindChapterQuiz:
		return k, nil
	default:
		return "", ValidationError{Field: "kind", Err: fmt.Errorf("unknown item kind %q", s)}
	}
}

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewableItem is a flashcard or chapter quiz unit owned by one user
type ReviewableItem struct {
	ID             string       `json:"id" db:"id"`
	UserID         string       `json:"user_id" db:"user_id"`
	CourseID       string       `json:"course_id" db:"course_id"`
	ChapterID      string       `json:"chapter_id" db:"chapter_id"`
	Kind           ItemKind     `json:"kind" db:"kind"`
	EaseFactor     float64      `json:"ease_factor" db:"ease_factor"`
	IntervalDays   int          `json:"interval_days" db:"interval_days"`
	NextReviewAt   *time.Time   `json:"next_review_at" db:"next_review_at"`
	ReviewCount    int          `json:"review_count" db:"review_count"`
	CorrectCount   int          `json:"correct_count" db:"correct_count"`
	IncorrectCount int          `json:"incorrect_count" db:"incorrect_count"`
	LastRating     *Rating      `json:"last_rating" db:"last_rating"`
	Mastery        MasteryLevel `json:"mastery_level" db:"mastery_level"`
	Archived       bool         `json:"archived" db:"archived"`
	LastReviewedAt *time.Time   `json:"last_reviewed_at" db:"last_reviewed_at"`
	ArchivedAt     *time.Time   `json:"archived_at" db:"archived_at"`
	Version        int64        `json:"version" db:"version"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// NewReviewableItem returns an unreviewed item with default scheduling state
func NewReviewableItem(id, userID, courseID, chapterID string, kind ItemKind, now time.Time) ReviewableItem {
	return ReviewableItem{
		ID:         id,
		UserID:     userID,
		CourseID:   courseID,
		ChapterID:  chapterID,
		Kind:       kind,
		EaseFactor: DefaultEaseFactor,
		Mastery:    MasteryNotStarted,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsDue reports whether the item should be shown for review at now.
// Items that were never scheduled are due immediately.
func (it *ReviewableItem) IsDue(now time.Time) bool {
	if it.Archived {
		return false
	}
	return it.NextReviewAt == nil || !it.NextReviewAt.After(now)
}

// Accuracy returns the share of correct reviews, 0 when never reviewed
func (it *ReviewableItem) Accuracy() float64 {
	if it.ReviewCount == 0 {
		return 0
	}
	return float64(it.CorrectCount) / float64(it.ReviewCount)
}
