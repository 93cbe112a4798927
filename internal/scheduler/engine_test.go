package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(ReminderEvent{ID: "later", MessageID: "2", TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(ReminderEvent{ID: "sooner", MessageID: "4", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
	if first.MessageID != "4" {
		t.Fatalf("expected message id to travel with the event, got %q", first.MessageID)
	}
}

func TestEngineCancelRemovesPending(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(ReminderEvent{ID: "keep", TriggerAt: now.Add(60 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule keep: %v", err)
	}
	if err := engine.Schedule(ReminderEvent{ID: "drop", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule drop: %v", err)
	}
	if !engine.Cancel("drop") {
		t.Fatal("expected cancel to report removal")
	}
	if engine.Cancel("drop") {
		t.Fatal("second cancel should be a no-op")
	}
	if got := engine.Pending(); got != 1 {
		t.Fatalf("expected 1 pending, got %d", got)
	}

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ID != "keep" {
		t.Fatalf("expected keep, got %s", ev.ID)
	}
}

func TestEngineRescheduleReplaces(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(ReminderEvent{ID: "r", Label: "old", TriggerAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(ReminderEvent{ID: "r", Label: "new", TriggerAt: now.Add(10 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if got := engine.Pending(); got != 1 {
		t.Fatalf("expected 1 pending after reschedule, got %d", got)
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.Label != "new" {
		t.Fatalf("expected replaced event, got %+v", ev)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	due := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(ReminderEvent{ID: fmt.Sprintf("evt-%d", i), TriggerAt: due}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidates(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(ReminderEvent{ID: "bad"}); !errors.Is(err, ErrInvalidTriggerTime) {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	if err := engine.Schedule(ReminderEvent{TriggerAt: time.Now()}); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	engine.Stop()
	if err := engine.Schedule(ReminderEvent{ID: "late", TriggerAt: time.Now()}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestStopClosesChannel(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if _, ok := <-engine.C(); ok {
		t.Fatal("expected closed channel after stop")
	}
}

func TestStopWithoutStartClosesChannel(t *testing.T) {
	engine := NewEngine(1)
	engine.Stop()
	engine.Stop()
	if _, ok := <-engine.C(); ok {
		t.Fatal("expected closed channel after stop")
	}
}

func waitEvent(t *testing.T, ch <-chan ReminderEvent, timeout time.Duration) ReminderEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return ReminderEvent{}
	}
}
