package session

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/sandeepkv93/grace/internal/model"
)

func TestTrackerInitialDerivation(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(model.EfficiencyMetrics{TasksCompleted: 12, TimesSaved: 47, EfficiencyScore: 78, Streak: 3}, rand.New(rand.NewPCG(3, 4)), now)

	first, _ := tr.Achievement("first-task")
	if first.UnlockedAt == nil || first.Progress != 1 {
		t.Fatalf("first-task should be unlocked with capped progress: %+v", first)
	}
	master, _ := tr.Achievement("efficiency-master")
	if master.UnlockedAt != nil || master.Progress != 78 {
		t.Fatalf("efficiency-master should be locked at 78: %+v", master)
	}
	if len(tr.Unlocked()) != 2 {
		t.Fatalf("expected first-task and task-warrior unlocked, got %d", len(tr.Unlocked()))
	}
}

func TestTrackerEfficiencyClampedAt100(t *testing.T) {
	now := time.Now()
	tr := NewTracker(model.EfficiencyMetrics{EfficiencyScore: 99}, rand.New(rand.NewPCG(5, 6)), now)
	for i := 0; i < 5; i++ {
		tr.RecordCompletion(now)
	}
	if got := tr.Metrics().EfficiencyScore; got != 100 {
		t.Fatalf("expected clamp at 100, got %d", got)
	}
}

func TestTrackerReportsNewUnlocksOnce(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(model.EfficiencyMetrics{}, rand.New(rand.NewPCG(7, 8)), now)
	unlocked := tr.RecordCompletion(now)
	found := false
	for _, a := range unlocked {
		if a.ID == "first-task" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected first-task in newly unlocked, got %+v", unlocked)
	}
	for _, a := range tr.RecordCompletion(now.Add(time.Minute)) {
		if a.ID == "first-task" {
			t.Fatal("first-task reported twice")
		}
	}
}

func TestTrackerStreakDrivesStreakChampion(t *testing.T) {
	now := time.Now()
	tr := NewTracker(model.EfficiencyMetrics{}, nil, now)
	m := tr.Metrics()
	m.Streak = 7
	unlocked := tr.SetMetrics(m, now)
	if len(unlocked) != 1 || unlocked[0].ID != "streak-champion" {
		t.Fatalf("expected streak champion unlock, got %+v", unlocked)
	}
}
