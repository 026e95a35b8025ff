package srs

import "nareo/internal/models"

// Mastery thresholds. Bounds are inclusive.
const (
	MasteredMinInterval = 21
	MasteredMinAccuracy = 0.85
	AcquiredMinInterval = 7
	AcquiredMinAccuracy = 0.7
)

// Classify derives the mastery level from an item's review counters.
// An item with no reviews is not_started even when archived.
func Classify(item models.ReviewableItem) models.MasteryLevel {
	if item.ReviewCount <= 0 {
		return models.MasteryNotStarted
	}
	if item.Archived {
		return models.MasteryMastered
	}

	accuracy := float64(item.CorrectCount) / float64(item.ReviewCount)
	switch {
	case item.IntervalDays >= MasteredMinInterval && accuracy >= MasteredMinAccuracy:
		return models.MasteryMastered
	case item.IntervalDays >= AcquiredMinInterval && accuracy >= AcquiredMinAccuracy:
		return models.MasteryAcquired
	default:
		return models.MasteryLearning
	}
}
