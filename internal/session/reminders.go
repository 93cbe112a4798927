package session

import (
	"time"

	"github.com/sandeepkv93/grace/internal/model"
)

type ReminderRegistry struct {
	items         []model.ActiveReminder
	confirmations map[string]bool
	newID         func() string
}

func NewReminderRegistry(newID func() string) *ReminderRegistry {
	return &ReminderRegistry{
		confirmations: make(map[string]bool),
		newID:         newID,
	}
}

// Add records a reminder and raises the confirmation flag for its message.
func (r *ReminderRegistry) Add(messageID string, opt model.ReminderOption, now time.Time) model.ActiveReminder {
	rem := model.ActiveReminder{
		ID:        r.newID(),
		MessageID: messageID,
		Label:     opt.Label,
		OptionID:  opt.ID,
		Timestamp: now,
	}
	if opt.Offset > 0 {
		due := now.Add(opt.Offset)
		rem.DueAt = &due
	}
	r.items = append(r.items, rem)
	r.confirmations[messageID] = true
	return rem
}

// Remove drops a reminder without confirmation.
func (r *ReminderRegistry) Remove(id string) (model.ActiveReminder, bool) {
	for i, rem := range r.items {
		if rem.ID == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return rem, true
		}
	}
	return model.ActiveReminder{}, false
}

func (r *ReminderRegistry) Get(id string) (model.ActiveReminder, bool) {
	for _, rem := range r.items {
		if rem.ID == id {
			return rem, true
		}
	}
	return model.ActiveReminder{}, false
}

func (r *ReminderRegistry) Items() []model.ActiveReminder {
	out := make([]model.ActiveReminder, len(r.items))
	copy(out, r.items)
	return out
}

func (r *ReminderRegistry) Len() int { return len(r.items) }

func (r *ReminderRegistry) Confirmed(messageID string) bool {
	return r.confirmations[messageID]
}

func (r *ReminderRegistry) ClearConfirmation(messageID string) {
	delete(r.confirmations, messageID)
}
