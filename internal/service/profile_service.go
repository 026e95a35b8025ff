package service

import (
	"context"
	"strings"
	"time"

	"nareo/internal/models"
	"nareo/internal/repository"
	"nareo/internal/validation"
)

// ProfileService manages per-user study settings
type ProfileService struct {
	profiles       *repository.ProfileRepository
	initialFreezes int
	now            func() time.Time
}

// NewProfileService creates a new profile service. New profiles start with
// initialFreezes streak freezes.
func NewProfileService(profiles *repository.ProfileRepository, initialFreezes int) *ProfileService {
	return &ProfileService{
		profiles:       profiles,
		initialFreezes: initialFreezes,
		now:            time.Now,
	}
}

// Get returns the profile of a user, creating it on first access
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	defaults := models.Profile{
		UserID:           userID,
		GoalLevel:        models.GoalStandard,
		Timezone:         "UTC",
		FreezesAvailable: s.initialFreezes,
	}
	return s.profiles.GetOrCreate(ctx, defaults, s.now().UTC())
}

// Update applies the provided fields; nil fields are left untouched
func (s *ProfileService) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.GoalLevel != nil {
		level, err := models.ParseGoalLevel(*upd.GoalLevel)
		if err != nil {
			return nil, models.ValidationError{Field: "goal_level", Err: err}
		}
		p.GoalLevel = level
	}
	if upd.Timezone != nil {
		tz := strings.TrimSpace(*upd.Timezone)
		if err := validation.ValidateTimezone(tz); err != nil {
			return nil, err
		}
		p.Timezone = tz
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email != "" {
			if err := validation.ValidateEmail(email); err != nil {
				return nil, err
			}
		}
		p.Email = email
	}
	if upd.RemindersEnabled != nil {
		p.RemindersEnabled = *upd.RemindersEnabled
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.profiles.UpdateSettings(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Today returns the current calendar date in the profile's timezone
func (s *ProfileService) Today(p *models.Profile) string {
	return models.LocalDate(s.now(), p.Location())
}
