package session

import (
	"math/rand/v2"
	"time"

	"github.com/sandeepkv93/grace/internal/model"
)

// Increment ranges applied after every successful reply.
const (
	minMinutesSaved   = 2
	maxMinutesSaved   = 6
	minEfficiencyGain = 1
	maxEfficiencyGain = 3
)

// Tracker owns the efficiency metrics and the achievement read-model derived
// from them.
type Tracker struct {
	metrics      model.EfficiencyMetrics
	achievements []model.Achievement
	rng          *rand.Rand
}

func NewTracker(initial model.EfficiencyMetrics, rng *rand.Rand, now time.Time) *Tracker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x9e3779b97f4a7c15))
	}
	initial.EfficiencyScore = model.ClampEfficiency(initial.EfficiencyScore)
	t := &Tracker{
		metrics:      initial,
		achievements: model.AchievementCatalog(),
		rng:          rng,
	}
	t.recompute(now)
	return t
}

// RecordCompletion applies the post-reply increments and returns the
// achievements that unlocked because of them.
func (t *Tracker) RecordCompletion(now time.Time) []model.Achievement {
	next := t.metrics
	next.TasksCompleted++
	next.TimesSaved += minMinutesSaved + t.rng.IntN(maxMinutesSaved-minMinutesSaved+1)
	next.EfficiencyScore = model.ClampEfficiency(next.EfficiencyScore + minEfficiencyGain + t.rng.IntN(maxEfficiencyGain-minEfficiencyGain+1))
	t.metrics = next
	return t.recompute(now)
}

// SetMetrics replaces the metrics record. Unlocks already granted stay.
func (t *Tracker) SetMetrics(m model.EfficiencyMetrics, now time.Time) []model.Achievement {
	m.EfficiencyScore = model.ClampEfficiency(m.EfficiencyScore)
	t.metrics = m
	return t.recompute(now)
}

func (t *Tracker) Metrics() model.EfficiencyMetrics {
	return t.metrics
}

func (t *Tracker) Achievements() []model.Achievement {
	out := make([]model.Achievement, len(t.achievements))
	copy(out, t.achievements)
	return out
}

func (t *Tracker) Unlocked() []model.Achievement {
	out := make([]model.Achievement, 0, len(t.achievements))
	for _, a := range t.achievements {
		if a.Unlocked() {
			out = append(out, a)
		}
	}
	return out
}

func (t *Tracker) Achievement(id string) (model.Achievement, bool) {
	for _, a := range t.achievements {
		if a.ID == id {
			return a, true
		}
	}
	return model.Achievement{}, false
}

func (t *Tracker) recompute(now time.Time) []model.Achievement {
	var unlocked []model.Achievement
	t.achievements, unlocked = deriveAchievements(t.achievements, t.metrics, now)
	return unlocked
}

// deriveAchievements mirrors each achievement's metric into its progress and
// stamps UnlockedAt the first time the threshold is reached. A stamped
// achievement is never re-locked.
func deriveAchievements(prev []model.Achievement, m model.EfficiencyMetrics, now time.Time) ([]model.Achievement, []model.Achievement) {
	next := make([]model.Achievement, len(prev))
	var unlocked []model.Achievement
	for i, a := range prev {
		value := m.Value(a.Metric)
		a.Progress = value
		if a.CapProgress && a.Progress > a.MaxProgress {
			a.Progress = a.MaxProgress
		}
		if a.UnlockedAt == nil && value >= a.MaxProgress {
			at := now
			a.UnlockedAt = &at
			unlocked = append(unlocked, a)
		}
		next[i] = a
	}
	return next, unlocked
}
