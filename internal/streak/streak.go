package streak

import (
	"fmt"
	"sort"
	"time"

	"nareo/internal/models"
)

// Policy holds streak milestones and freeze allowances
type Policy struct {
	Milestones         []int `yaml:"milestones"`
	MaxFreezes         int   `yaml:"max_freezes"`
	InitialFreezes     int   `yaml:"initial_freezes"`
	FreezeGrantDays    int   `yaml:"freeze_grant_days"`
	LookbackDays       int   `yaml:"lookback_days"`
	MaxFreezeBackdays  int   `yaml:"max_freeze_backdays"`
	ReminderStreakFrom int   `yaml:"reminder_streak_from"`
}

// DefaultPolicy returns the default milestones and freeze caps
func DefaultPolicy() Policy {
	return Policy{
		Milestones:         []int{3, 7, 14, 30, 100},
		MaxFreezes:         2,
		InitialFreezes:     1,
		FreezeGrantDays:    7,
		LookbackDays:       400,
		MaxFreezeBackdays:  7,
		ReminderStreakFrom: 1,
	}
}

// Check walks a user's daily records backwards from today and derives
// the streak state. Records may be in any order and may have gaps.
//
// A completed day extends the chain, as does a day covered by a freeze.
// Today never breaks the chain: while incomplete it is only at risk.
//
// PreviousStreakLost is the length of the run that ended at the most recent
// broken day, counting only days before the break. With five days of
// history where day 3 was missed, it is 2 (days 1 and 2), not 3.
func Check(records []models.DailyActivityRecord, today string, storedLongest int) (models.StreakResult, error) {
	t, err := models.ParseDate(today)
	if err != nil {
		return models.StreakResult{}, err
	}

	byDate := make(map[string]models.DailyActivityRecord, len(records))
	earliest := today
	for _, r := range records {
		byDate[r.ActivityDate] = r
		if r.ActivityDate < earliest {
			earliest = r.ActivityDate
		}
	}

	res := models.StreakResult{}
	todayRec, hasToday := byDate[today]
	res.TodayCompleted = hasToday && todayRec.GoalCompleted
	todayCovered := hasToday && !todayRec.GoalCompleted && todayRec.StreakFreezeUsed

	current := 0
	if res.TodayCompleted || todayCovered {
		current = 1
	}

	run, breakDay, broken := walk(byDate, t.AddDate(0, 0, -1), earliest)
	current += run

	previous := 0
	if broken {
		previous, _, _ = walk(byDate, breakDay.AddDate(0, 0, -1), earliest)
	}

	res.CurrentStreak = current
	res.PreviousStreakLost = previous
	res.JustExtended = res.TodayCompleted
	res.JustLost = current == 0 && previous > 0
	res.AtRisk = !res.TodayCompleted && !todayCovered && current > 0
	res.LongestStreak = max(storedLongest, current, previous)
	return res, nil
}

// walk counts consecutive kept days starting at from and going backwards.
// It stops at the first day that is neither completed nor covered,
// reporting that day, or when it runs past the earliest record.
func walk(byDate map[string]models.DailyActivityRecord, from time.Time, earliest string) (int, time.Time, bool) {
	count := 0
	for day := from; ; day = day.AddDate(0, 0, -1) {
		key := day.Format(models.DateLayout)
		if key < earliest {
			return count, time.Time{}, false
		}
		rec, ok := byDate[key]
		if !ok || (!rec.GoalCompleted && !rec.StreakFreezeUsed) {
			return count, day, true
		}
		count++
	}
}

// NewMilestones returns the thresholds crossed above the awarded watermark,
// in ascending order
func NewMilestones(current, watermark int, thresholds []int) []int {
	sorted := append([]int(nil), thresholds...)
	sort.Ints(sorted)

	var out []int
	for _, m := range sorted {
		if m > watermark && m <= current {
			out = append(out, m)
		}
	}
	return out
}

// CheckFreeze validates that a freeze may be applied to date.
// rec is the stored record for that date, or nil when none exists.
func CheckFreeze(rec *models.DailyActivityRecord, date, today string, maxBackdays int) error {
	d, err := models.ParseDate(date)
	if err != nil {
		return err
	}
	t, err := models.ParseDate(today)
	if err != nil {
		return err
	}
	if !d.Before(t) {
		return fmt.Errorf("%w: %s is not in the past", models.ErrFreezeNotApplicable, date)
	}
	if maxBackdays > 0 && t.Sub(d) > time.Duration(maxBackdays)*24*time.Hour {
		return fmt.Errorf("%w: %s is more than %d days ago", models.ErrFreezeNotApplicable, date, maxBackdays)
	}
	if rec != nil && rec.GoalCompleted {
		return fmt.Errorf("%w: goal already completed on %s", models.ErrFreezeNotApplicable, date)
	}
	if rec != nil && rec.StreakFreezeUsed {
		return fmt.Errorf("%w: %s is already covered", models.ErrFreezeNotApplicable, date)
	}
	return nil
}
