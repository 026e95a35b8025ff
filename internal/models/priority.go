package models

import "fmt"

// PriorityReason tags why something was ranked for review
type PriorityReason string

const (
	ReasonNeverStarted PriorityReason = "never_started"
	ReasonOverdue      PriorityReason = "overdue"
	ReasonAtRisk       PriorityReason = "at_risk"
	ReasonDue          PriorityReason = "due"
	ReasonOnTrack      PriorityReason = "on_track"
)

// PriorityScope is the granularity of a ranking
type PriorityScope string

const (
	ScopeItem    PriorityScope = "item"
	ScopeChapter PriorityScope = "chapter"
	ScopeCourse  PriorityScope = "course"
)

// ParsePriorityScope validates the grouping requested by a client
func ParsePriorityScope(s string) (PriorityScope, error) {
	switch p := PriorityScope(s); p {
	case "":
		return ScopeChapter, nil
	case ScopeItem, ScopeChapter, ScopeCourse:
		return p, nil
	default:
		return "", ValidationError{Field: "group", Err: fmt.Errorf("unknown priority group %q", s)}
	}
}

// PriorityItem is one ranked entry of a "what to review next" list.
// It is recomputed on demand and never stored.
type PriorityItem struct {
	RefID               string         `json:"ref_id"`
	Scope               PriorityScope  `json:"scope"`
	CourseID            string         `json:"course_id,omitempty"`
	Score               float64        `json:"score"`
	Reason              PriorityReason `json:"reason"`
	DaysSinceLastReview *int           `json:"days_since_last_review"`
	DueCount            int            `json:"due_count"`
	Mastery             MasteryLevel   `json:"mastery_level"`
}
