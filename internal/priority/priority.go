package priority

import (
	"sort"
	"time"

	"nareo/internal/models"
)

// Weights configures the priority score
//
//	score = Recency*days_since_last_review + Due*due_count - Mastery*mastery_weight
type Weights struct {
	Recency float64 `yaml:"recency"`
	Due     float64 `yaml:"due"`
	Mastery float64 `yaml:"mastery"`

	// Recency assumed for material that was never reviewed
	NeverReviewedDays int `yaml:"never_reviewed_days"`
	OverdueDays       int `yaml:"overdue_days"`
	AtRiskDays        int `yaml:"at_risk_days"`
	TopN              int `yaml:"top_n"`
}

// DefaultWeights returns the default scoring weights and thresholds
func DefaultWeights() Weights {
	return Weights{
		Recency:           1,
		Due:               2,
		Mastery:           3,
		NeverReviewedDays: 30,
		OverdueDays:       7,
		AtRiskDays:        21,
		TopN:              5,
	}
}

// Candidate is an item, chapter or course considered for review
type Candidate struct {
	RefID          string
	Scope          models.PriorityScope
	CourseID       string
	LastReviewedAt *time.Time
	ReviewCount    int
	DueCount       int
	Mastery        models.MasteryLevel
}

// DaysSince returns whole days elapsed since t, false when t is nil
func DaysSince(t *time.Time, now time.Time) (int, bool) {
	if t == nil {
		return 0, false
	}
	d := int(now.Sub(*t).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return d, true
}

// Score computes the priority of a candidate. Higher means review sooner.
func (w Weights) Score(c Candidate, now time.Time) float64 {
	days, ok := DaysSince(c.LastReviewedAt, now)
	if !ok || c.ReviewCount == 0 {
		days = w.NeverReviewedDays
	}
	return w.Recency*float64(days) + w.Due*float64(c.DueCount) - w.Mastery*float64(c.Mastery.Weight())
}

// Reason tags why a candidate needs attention
func (w Weights) Reason(c Candidate, now time.Time) models.PriorityReason {
	if c.ReviewCount == 0 {
		return models.ReasonNeverStarted
	}
	days, _ := DaysSince(c.LastReviewedAt, now)
	switch {
	case (c.Mastery == models.MasteryAcquired || c.Mastery == models.MasteryMastered) && days > w.AtRiskDays:
		return models.ReasonAtRisk
	case (c.Mastery == models.MasteryLearning || c.Mastery == models.MasteryAcquired) && days > w.OverdueDays:
		return models.ReasonOverdue
	case c.DueCount > 0:
		return models.ReasonDue
	default:
		return models.ReasonOnTrack
	}
}

// Rank scores candidates and returns them in descending order of priority,
// ties broken by identifier. limit <= 0 falls back to TopN; when that is
// also unset every candidate is returned.
func Rank(candidates []Candidate, w Weights, now time.Time, limit int) []models.PriorityItem {
	out := make([]models.PriorityItem, 0, len(candidates))
	for _, c := range candidates {
		item := models.PriorityItem{
			RefID:    c.RefID,
			Scope:    c.Scope,
			CourseID: c.CourseID,
			Score:    w.Score(c, now),
			Reason:   w.Reason(c, now),
			DueCount: c.DueCount,
			Mastery:  c.Mastery,
		}
		if days, ok := DaysSince(c.LastReviewedAt, now); ok && c.ReviewCount > 0 {
			item.DaysSinceLastReview = &days
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].RefID < out[j].RefID
	})

	if limit <= 0 {
		limit = w.TopN
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Candidates builds ranking candidates from a user's items at the given
// granularity. Archived items are left out.
func Candidates(items []models.ReviewableItem, scope models.PriorityScope, now time.Time) []Candidate {
	type group struct {
		cand      Candidate
		weightSum int
		count     int
	}
	groups := make(map[string]*group)
	var order []string

	for _, it := range items {
		if it.Archived {
			continue
		}
		key := groupKey(it, scope)
		g, ok := groups[key]
		if !ok {
			g = &group{cand: Candidate{RefID: key, Scope: scope, CourseID: it.CourseID}}
			groups[key] = g
			order = append(order, key)
		}
		g.cand.ReviewCount += it.ReviewCount
		if it.IsDue(now) {
			g.cand.DueCount++
		}
		if it.LastReviewedAt != nil && (g.cand.LastReviewedAt == nil || it.LastReviewedAt.After(*g.cand.LastReviewedAt)) {
			t := *it.LastReviewedAt
			g.cand.LastReviewedAt = &t
		}
		g.weightSum += it.Mastery.Weight()
		g.count++
	}

	out := make([]Candidate, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.cand.Mastery = models.MasteryFromWeight(g.weightSum / g.count)
		if g.cand.ReviewCount == 0 {
			g.cand.Mastery = models.MasteryNotStarted
		}
		out = append(out, g.cand)
	}
	return out
}

func groupKey(it models.ReviewableItem, scope models.PriorityScope) string {
	switch scope {
	case models.ScopeCourse:
		return it.CourseID
	case models.ScopeChapter:
		if it.ChapterID != "" {
			return it.ChapterID
		}
		return it.CourseID
	default:
		return it.ID
	}
}
