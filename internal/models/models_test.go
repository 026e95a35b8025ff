package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		input   string
		want    Rating
		wantErr bool
	}{
		{"again", RatingAgain, false},
		{"hard", RatingHard, false},
		{" good ", RatingGood, false},
		{"easy", RatingEasy, false},
		{"Good", "", true},
		{"", "", true},
		{"perfect", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRating(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRating) {
					t.Errorf("ParseRating(%q) error = %v, want ErrInvalidRating", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseRating(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestRatingIsCorrect(t *testing.T) {
	if RatingAgain.IsCorrect() {
		t.Error("again should count as incorrect")
	}
	for _, r := range []Rating{RatingHard, RatingGood, RatingEasy} {
		if !r.IsCorrect() {
			t.Errorf("%s should count as correct", r)
		}
	}
}

func TestParseGoalLevel(t *testing.T) {
	for _, s := range []string{"tranquille", "standard", "intensif"} {
		if _, err := ParseGoalLevel(s); err != nil {
			t.Errorf("ParseGoalLevel(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseGoalLevel("extreme"); !errors.Is(err, ErrInvalidGoalLevel) {
		t.Errorf("expected ErrInvalidGoalLevel, got %v", err)
	}
}

func TestDates(t *testing.T) {
	got, err := ShiftDate("2026-03-01", -1)
	if err != nil || got != "2026-02-28" {
		t.Errorf("ShiftDate back over month end = %q, %v", got, err)
	}
	got, err = ShiftDate("2024-02-28", 1)
	if err != nil || got != "2024-02-29" {
		t.Errorf("ShiftDate into leap day = %q, %v", got, err)
	}
	if _, err := ShiftDate("2026-13-01", 1); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	if d := LocalDate(late, paris); d != "2026-03-11" {
		t.Errorf("LocalDate in Paris = %s, want 2026-03-11", d)
	}
	if d := LocalDate(late, nil); d != "2026-03-10" {
		t.Errorf("LocalDate with nil location = %s, want 2026-03-10", d)
	}
}

func TestActivityDeltaValidate(t *testing.T) {
	tests := []struct {
		name    string
		delta   ActivityDelta
		wantErr bool
	}{
		{"zero", ActivityDelta{}, false},
		{"quiz", ActivityDelta{QuestionsCorrect: 8, QuestionsIncorrect: 2, QuizzesCompleted: 1}, false},
		{"negative", ActivityDelta{FlashcardsGood: -1}, true},
		{"more perfect than completed", ActivityDelta{QuizzesPerfect: 2, QuizzesCompleted: 1}, true},
		{"at the cap", ActivityDelta{QuestionsCorrect: MaxDeltaCount, FlashcardsEasy: MaxDeltaCount}, false},
		{"over the cap", ActivityDelta{FlashcardsHard: MaxDeltaCount + 1}, true},
		{"overflowing xp", ActivityDelta{QuestionsCorrect: math.MaxInt / 5}, true},
		{"overflowing units", ActivityDelta{QuizzesCompleted: math.MaxInt, QuizzesPerfect: math.MaxInt}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.delta.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr ValidationError
				if !errors.As(err, &verr) || !errors.Is(err, ErrInvalidDelta) {
					t.Errorf("expected a ValidationError wrapping ErrInvalidDelta, got %v", err)
				}
			}
		})
	}
}

func TestDeltaForRating(t *testing.T) {
	if d := DeltaForRating(RatingAgain); !d.IsZero() {
		t.Errorf("again should produce an empty delta, got %+v", d)
	}
	if d := DeltaForRating(RatingHard); d.FlashcardsHard != 1 || d.FlashcardsReviewed() != 1 {
		t.Errorf("hard delta = %+v", d)
	}
	if d := DeltaForRating(RatingEasy); d.FlashcardsEasy != 1 || d.QuestionsAnswered() != 0 {
		t.Errorf("easy delta = %+v", d)
	}
}

func TestItemIsDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	item := NewReviewableItem("i1", "u1", "c1", "ch1", ItemKindFlashcard, now)
	if !item.IsDue(now) {
		t.Error("a new item should be due")
	}

	later := now.Add(time.Hour)
	item.NextReviewAt = &later
	if item.IsDue(now) {
		t.Error("item scheduled later should not be due")
	}
	item.NextReviewAt = &now
	if !item.IsDue(now) {
		t.Error("item scheduled exactly now should be due")
	}
	item.Archived = true
	if item.IsDue(now) {
		t.Error("archived items are never due")
	}
}

func TestProfileLocation(t *testing.T) {
	p := Profile{Timezone: "Not/AZone"}
	if p.Location() != time.UTC {
		t.Error("unknown timezone should fall back to UTC")
	}
	p.Timezone = ""
	if p.Location() != time.UTC {
		t.Error("empty timezone should be UTC")
	}
}
