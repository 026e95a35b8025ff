package service

import (
	"context"
	"time"

	"nareo/internal/models"
	"nareo/internal/priority"
	"nareo/internal/repository"
)

// PriorityService answers "what should I review next"
type PriorityService struct {
	items   *repository.ItemRepository
	weights priority.Weights
	now     func() time.Time
}

// NewPriorityService creates a new priority service
func NewPriorityService(items *repository.ItemRepository, weights priority.Weights) *PriorityService {
	return &PriorityService{items: items, weights: weights, now: time.Now}
}

// Priorities ranks the user's items, chapters or courses. A limit of zero
// uses the configured default.
func (s *PriorityService) Priorities(ctx context.Context, userID string, scope models.PriorityScope, limit int) ([]models.PriorityItem, error) {
	items, err := s.items.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ranked := priority.Rank(priority.Candidates(items, scope, now), s.weights, now, limit)
	if ranked == nil {
		ranked = []models.PriorityItem{}
	}
	return ranked, nil
}
