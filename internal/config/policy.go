package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nareo/internal/activity"
	"nareo/internal/priority"
	"nareo/internal/srs"
	"nareo/internal/streak"
)

// Policy gathers the tunable study rules. Values missing from the YAML
// file keep their defaults.
type Policy struct {
	Scheduler srs.Params       `yaml:"scheduler"`
	Activity  activity.Policy  `yaml:"activity"`
	Streak    streak.Policy    `yaml:"streak"`
	Priority  priority.Weights `yaml:"priority"`
}

// DefaultPolicy returns the built-in study rules
func DefaultPolicy() Policy {
	return Policy{
		Scheduler: srs.DefaultParams(),
		Activity:  activity.DefaultPolicy(),
		Streak:    streak.DefaultPolicy(),
		Priority:  priority.DefaultWeights(),
	}
}

// LoadPolicy reads a YAML policy file over the defaults. An empty path
// returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse policy file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid policy file %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects settings that would break streak or goal arithmetic
func (p Policy) Validate() error {
	for level, target := range p.Activity.GoalTargets {
		if target <= 0 {
			return fmt.Errorf("goal target for %s must be positive", level)
		}
	}
	if p.Activity.GoalXPMultiplier < 1 {
		return fmt.Errorf("goal_xp_multiplier must be at least 1")
	}
	if p.Scheduler.MinEase <= 0 || p.Scheduler.MaxEase < p.Scheduler.MinEase {
		return fmt.Errorf("scheduler ease bounds are inconsistent")
	}
	if p.Streak.MaxFreezes < 0 || p.Streak.InitialFreezes > p.Streak.MaxFreezes {
		return fmt.Errorf("initial_freezes must not exceed max_freezes")
	}
	if p.Priority.TopN <= 0 {
		return fmt.Errorf("priority top_n must be positive")
	}
	return nil
}
