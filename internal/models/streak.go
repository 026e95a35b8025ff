package models

// StreakResult is the derived streak state for a user
type StreakResult struct {
	CurrentStreak      int  `json:"current_streak"`
	LongestStreak      int  `json:"longest_streak"`
	FreezesAvailable   int  `json:"freezes_available"`
	PreviousStreakLost int  `json:"previous_streak_lost"`
	JustLost           bool `json:"just_lost"`
	JustExtended       bool `json:"just_extended"`
	TodayCompleted     bool `json:"today_completed"`
	AtRisk             bool `json:"at_risk"`
}

// MilestoneResult lists streak milestones crossed since the last award
type MilestoneResult struct {
	CurrentStreak int   `json:"current_streak"`
	NewMilestones []int `json:"new_milestones"`
	LastAwarded   int   `json:"last_awarded"`
}

// FreezeResult is returned after a streak freeze is consumed
type FreezeResult struct {
	Date             string       `json:"date"`
	FreezesAvailable int          `json:"freezes_available"`
	Streak           StreakResult `json:"streak"`
}
