package model

import (
	"errors"
	"testing"
	"time"
)

func TestActiveReminderValidateSuccess(t *testing.T) {
	created := time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC)
	due := created.Add(time.Hour)
	rem := ActiveReminder{
		ID:        "rem-1",
		MessageID: "2",
		Label:     "Remind me in 1 hour",
		OptionID:  ReminderOneHour,
		Timestamp: created,
		DueAt:     &due,
	}
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid reminder, got error: %v", err)
	}
}

func TestActiveReminderValidateDueBeforeCreation(t *testing.T) {
	created := time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC)
	due := created.Add(-time.Minute)
	rem := ActiveReminder{
		ID:        "rem-1",
		MessageID: "2",
		Label:     "Custom reminder",
		Timestamp: created,
		DueAt:     &due,
	}
	err := rem.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrInvalidReminderOption) {
		t.Fatalf("expected ErrInvalidReminderOption, got: %v", err)
	}
}

func TestReminderOptionsCatalog(t *testing.T) {
	opts := ReminderOptions()
	if len(opts) != 5 {
		t.Fatalf("expected 5 reminder options, got %d", len(opts))
	}
	hour, ok := ReminderOptionByID(ReminderOneHour)
	if !ok || hour.Offset != time.Hour {
		t.Fatalf("unexpected 1hour option: %+v ok=%v", hour, ok)
	}
	follow, ok := ReminderOptionByID(ReminderFollowUp)
	if !ok || follow.Offset != 0 {
		t.Fatalf("follow-up option should not trigger: %+v", follow)
	}
	if _, ok := ReminderOptionByID("never"); ok {
		t.Fatal("expected unknown option lookup to fail")
	}
}

func TestCustomReminderOptionLabel(t *testing.T) {
	opt := CustomReminderOption(30 * time.Minute)
	if opt.Label != "Remind me in 30m0s" || opt.Offset != 30*time.Minute {
		t.Fatalf("unexpected custom option: %+v", opt)
	}
}
