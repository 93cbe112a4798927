package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidMetrics = errors.New("model: invalid efficiency metrics")

const MaxEfficiencyScore = 100

type EfficiencyMetrics struct {
	TasksCompleted  int `json:"tasksCompleted"`
	TimesSaved      int `json:"timesSaved"`
	EfficiencyScore int `json:"efficiencyScore"`
	Streak          int `json:"streak"`
}

func (m EfficiencyMetrics) Validate() error {
	if m.TasksCompleted < 0 || m.TimesSaved < 0 || m.Streak < 0 {
		return fmt.Errorf("%w: counters must not be negative", ErrInvalidMetrics)
	}
	if m.EfficiencyScore < 0 || m.EfficiencyScore > MaxEfficiencyScore {
		return fmt.Errorf("%w: efficiency score %d outside [0,%d]", ErrInvalidMetrics, m.EfficiencyScore, MaxEfficiencyScore)
	}
	return nil
}

// ClampEfficiency bounds a score to [0,100].
func ClampEfficiency(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxEfficiencyScore {
		return MaxEfficiencyScore
	}
	return score
}

type MetricField string

const (
	MetricTasksCompleted  MetricField = "tasksCompleted"
	MetricTimesSaved      MetricField = "timesSaved"
	MetricEfficiencyScore MetricField = "efficiencyScore"
	MetricStreak          MetricField = "streak"
)

func (m EfficiencyMetrics) Value(field MetricField) int {
	switch field {
	case MetricTasksCompleted:
		return m.TasksCompleted
	case MetricTimesSaved:
		return m.TimesSaved
	case MetricEfficiencyScore:
		return m.EfficiencyScore
	case MetricStreak:
		return m.Streak
	default:
		return 0
	}
}

type Achievement struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Progress    int         `json:"progress"`
	MaxProgress int         `json:"maxProgress"`
	UnlockedAt  *time.Time  `json:"unlockedAt,omitempty"`
	Metric      MetricField `json:"-"`
	// CapProgress clamps progress at MaxProgress instead of mirroring the raw metric.
	CapProgress bool `json:"-"`
}

func (a Achievement) Unlocked() bool { return a.UnlockedAt != nil }

// Percent is the progress toward the threshold in [0,1].
func (a Achievement) Percent() float64 {
	if a.MaxProgress <= 0 {
		return 0
	}
	p := float64(a.Progress) / float64(a.MaxProgress)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

const AchievementTaskWarrior = "task-warrior"

func AchievementCatalog() []Achievement {
	return []Achievement{
		{ID: "first-task", Title: "Getting Started", Description: "Complete your first task", Icon: "🎯", MaxProgress: 1, Metric: MetricTasksCompleted, CapProgress: true},
		{ID: "efficiency-master", Title: "Efficiency Master", Description: "Reach 80% efficiency score", Icon: "⚡", MaxProgress: 80, Metric: MetricEfficiencyScore},
		{ID: "time-saver", Title: "Time Saver", Description: "Save 60 minutes", Icon: "⏱️", MaxProgress: 60, Metric: MetricTimesSaved},
		{ID: AchievementTaskWarrior, Title: "Task Warrior", Description: "Complete 10 tasks", Icon: "🏆", MaxProgress: 10, Metric: MetricTasksCompleted},
		{ID: "streak-champion", Title: "Streak Champion", Description: "Maintain a 7-day streak", Icon: "🔥", MaxProgress: 7, Metric: MetricStreak},
	}
}
