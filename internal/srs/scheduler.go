package srs

import (
	"fmt"
	"math"
	"time"

	"nareo/internal/models"
)

// Params holds the tunables of the review scheduler
type Params struct {
	// Lower and upper bounds of the ease factor
	MinEase float64 `yaml:"min_ease"`
	MaxEase float64 `yaml:"max_ease"`
	// Ease adjustments per rating
	AgainPenalty float64 `yaml:"again_penalty"`
	HardPenalty  float64 `yaml:"hard_penalty"`
	EasyBonus    float64 `yaml:"easy_bonus"`
	// Interval growth multipliers
	HardMultiplier float64 `yaml:"hard_multiplier"`
	EasyMultiplier float64 `yaml:"easy_multiplier"`
	// Intervals used the first time an item is rated good or easy
	FirstGoodInterval int `yaml:"first_good_interval"`
	FirstEasyInterval int `yaml:"first_easy_interval"`
	// Longest interval in days
	MaxInterval int `yaml:"max_interval"`
}

// DefaultParams returns the simplified SM-2 defaults
func DefaultParams() Params {
	return Params{
		MinEase:           models.MinEaseFactor,
		MaxEase:           3.0,
		AgainPenalty:      0.2,
		HardPenalty:       0.15,
		EasyBonus:         0.15,
		HardMultiplier:    1.2,
		EasyMultiplier:    1.3,
		FirstGoodInterval: 1,
		FirstEasyInterval: 4,
		MaxInterval:       365,
	}
}

// Scheduler implements a simplified SM-2 spaced repetition schedule
type Scheduler struct {
	params Params
}

// NewScheduler creates a scheduler, filling zero params with defaults
func NewScheduler(p Params) *Scheduler {
	d := DefaultParams()
	if p.MinEase <= 0 {
		p.MinEase = d.MinEase
	}
	if p.MaxEase < p.MinEase {
		p.MaxEase = d.MaxEase
	}
	if p.HardMultiplier <= 0 {
		p.HardMultiplier = d.HardMultiplier
	}
	if p.EasyMultiplier <= 0 {
		p.EasyMultiplier = d.EasyMultiplier
	}
	if p.FirstGoodInterval <= 0 {
		p.FirstGoodInterval = d.FirstGoodInterval
	}
	if p.FirstEasyInterval <= 0 {
		p.FirstEasyInterval = d.FirstEasyInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = d.MaxInterval
	}
	return &Scheduler{params: p}
}

// Params returns the effective parameters
func (s *Scheduler) Params() Params {
	return s.params
}

// RecordReview applies a rating to an item and returns its next state.
// The input is never modified; on error it is returned unchanged.
func (s *Scheduler) RecordReview(item models.ReviewableItem, rating models.Rating, now time.Time) (models.ReviewableItem, error) {
	if _, err := models.ParseRating(string(rating)); err != nil {
		return item, err
	}
	if item.IntervalDays < 0 {
		return item, fmt.Errorf("%w: negative interval %d", models.ErrInvalidItemState, item.IntervalDays)
	}
	if item.ReviewCount < 0 || item.CorrectCount < 0 || item.IncorrectCount < 0 {
		return item, fmt.Errorf("%w: negative review counters", models.ErrInvalidItemState)
	}

	next := item
	ease := item.EaseFactor
	if ease == 0 {
		ease = models.DefaultEaseFactor
	}
	prev := item.IntervalDays

	var interval int
	switch rating {
	case models.RatingAgain:
		interval = 0
		ease -= s.params.AgainPenalty
	case models.RatingHard:
		interval = max(1, roundDays(float64(prev)*s.params.HardMultiplier))
		ease -= s.params.HardPenalty
	case models.RatingGood:
		if prev > 0 {
			interval = roundDays(float64(prev) * ease)
		} else {
			interval = s.params.FirstGoodInterval
		}
	case models.RatingEasy:
		if prev > 0 {
			interval = roundDays(float64(prev) * ease * s.params.EasyMultiplier)
		} else {
			interval = s.params.FirstEasyInterval
		}
		ease += s.params.EasyBonus
	}

	next.EaseFactor = clampEase(ease, s.params.MinEase, s.params.MaxEase)
	next.IntervalDays = clampInterval(interval, s.params.MaxInterval)

	reviewedAt := now
	nextReview := now.AddDate(0, 0, next.IntervalDays)
	next.LastReviewedAt = &reviewedAt
	next.NextReviewAt = &nextReview

	r := rating
	next.LastRating = &r
	next.ReviewCount++
	if rating.IsCorrect() {
		next.CorrectCount++
	} else {
		next.IncorrectCount++
	}
	next.Mastery = Classify(next)
	next.UpdatedAt = now

	return next, nil
}

// Preview returns the interval each rating would produce without applying it
func (s *Scheduler) Preview(item models.ReviewableItem, now time.Time) (map[models.Rating]int, error) {
	out := make(map[models.Rating]int, 4)
	for _, r := range []models.Rating{models.RatingAgain, models.RatingHard, models.RatingGood, models.RatingEasy} {
		next, err := s.RecordReview(item, r, now)
		if err != nil {
			return nil, err
		}
		out[r] = next.IntervalDays
	}
	return out, nil
}

func roundDays(v float64) int {
	return int(math.Round(v))
}

func clampEase(ease, lo, hi float64) float64 {
	if ease < lo {
		return lo
	}
	if ease > hi {
		return hi
	}
	// avoid 2.3499999 style drift after repeated adjustments
	return math.Round(ease*1000) / 1000
}

func clampInterval(days, maxDays int) int {
	if days < 0 {
		return 0
	}
	if days > maxDays {
		return maxDays
	}
	return days
}
