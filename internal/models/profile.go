package models

import "time"

// Profile holds per-user study settings and streak bookkeeping
type Profile struct {
	UserID            string     `json:"user_id" db:"user_id"`
	Email             string     `json:"email" db:"email"`
	GoalLevel         GoalLevel  `json:"goal_level" db:"goal_level"`
	Timezone          string     `json:"timezone" db:"timezone"`
	RemindersEnabled  bool       `json:"reminders_enabled" db:"reminders_enabled"`
	FreezesAvailable  int        `json:"freezes_available" db:"freezes_available"`
	LongestStreak     int        `json:"longest_streak" db:"longest_streak"`
	LastMilestone     int        `json:"last_milestone" db:"last_milestone"`
	LastFreezeGrantAt *time.Time `json:"last_freeze_grant_at" db:"last_freeze_grant_at"`
	LastRemindedOn    string     `json:"last_reminded_on,omitempty" db:"last_reminded_on"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Location resolves the profile timezone, falling back to UTC
func (p *Profile) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ProfileUpdate carries optional profile changes from a client
type ProfileUpdate struct {
	GoalLevel        *string `json:"goal_level"`
	Timezone         *string `json:"timezone"`
	Email            *string `json:"email"`
	RemindersEnabled *bool   `json:"reminders_enabled"`
}
