package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReminderOption = errors.New("model: invalid reminder option")

type ReminderOption struct {
	ID    string
	Label string
	Icon  string
	// Offset is how far from creation the reminder fires. Zero means the
	// reminder is recorded but never triggers.
	Offset time.Duration
}

const (
	ReminderTomorrow = "tomorrow"
	ReminderOneHour  = "1hour"
	ReminderFollowUp = "followup"
	ReminderNextWeek = "nextweek"
	ReminderCustom   = "custom"
)

func ReminderOptions() []ReminderOption {
	return []ReminderOption{
		{ID: ReminderTomorrow, Label: "Remind me tomorrow", Icon: "📅", Offset: 24 * time.Hour},
		{ID: ReminderOneHour, Label: "Remind me in 1 hour", Icon: "⏰", Offset: time.Hour},
		{ID: ReminderFollowUp, Label: "Set a follow-up task", Icon: "✅"},
		{ID: ReminderNextWeek, Label: "Remind me next week", Icon: "📆", Offset: 7 * 24 * time.Hour},
		{ID: ReminderCustom, Label: "Custom reminder", Icon: "⚙️"},
	}
}

func ReminderOptionByID(id string) (ReminderOption, bool) {
	for _, opt := range ReminderOptions() {
		if opt.ID == id {
			return opt, true
		}
	}
	return ReminderOption{}, false
}

// CustomReminderOption builds the option used for a user supplied delay.
func CustomReminderOption(after time.Duration) ReminderOption {
	return ReminderOption{
		ID:     ReminderCustom,
		Label:  fmt.Sprintf("Remind me in %s", after),
		Icon:   "⚙️",
		Offset: after,
	}
}

type ActiveReminder struct {
	ID        string     `json:"id"`
	MessageID string     `json:"messageId"`
	Label     string     `json:"label"`
	OptionID  string     `json:"optionId,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	DueAt     *time.Time `json:"dueAt,omitempty"`
}

func (r ActiveReminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.MessageID) == "" {
		return errors.New("model: reminder message id is required")
	}
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("model: reminder label is required")
	}
	if r.Timestamp.IsZero() {
		return errors.New("model: reminder timestamp is required")
	}
	if r.DueAt != nil && !r.DueAt.After(r.Timestamp) {
		return fmt.Errorf("%w: due time must follow creation", ErrInvalidReminderOption)
	}
	return nil
}
