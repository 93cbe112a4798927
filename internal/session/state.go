// Package session holds the assistant's state record and the named
// transitions that mutate it. Derived read-models (achievement unlocks) are
// recomputed after every transition that touches the metrics.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/grace/internal/assistant"
	"github.com/sandeepkv93/grace/internal/model"
)

var (
	ErrEmptyMessage        = errors.New("session: message is empty")
	ErrProcessing          = errors.New("session: a response is already pending")
	ErrUnknownCategory     = errors.New("session: unknown task category")
	ErrUnknownItem         = errors.New("session: unknown task item")
	ErrUnknownMessage      = errors.New("session: unknown message")
	ErrNotAssistantMessage = errors.New("session: reminders attach to assistant messages only")
	ErrUnknownReminder     = errors.New("session: unknown reminder")
	ErrEmptyLink           = errors.New("session: link is empty")
	ErrEmptyAttachment     = errors.New("session: attachment name is empty")
)

type Options struct {
	Catalog []model.TaskCategory
	History HistoryStore
	Metrics model.EfficiencyMetrics
	Rand    *rand.Rand
	Now     func() time.Time
	NewID   func() string
}

type State struct {
	Messages   []model.Message
	Processing bool

	Builder   *TaskBuilder
	Staging   *AttachmentStaging
	Reminders *ReminderRegistry
	Tracker   *Tracker

	history HistoryStore
	seq     int
	now     func() time.Time
	newID   func() string
}

func New(opts Options) *State {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	history := opts.History
	if history == nil {
		history = NewMemoryHistory()
	}
	return &State{
		Builder:   NewTaskBuilder(opts.Catalog),
		Staging:   NewAttachmentStaging(newID),
		Reminders: NewReminderRegistry(newID),
		Tracker:   NewTracker(opts.Metrics, opts.Rand, now()),
		history:   history,
		now:       now,
		newID:     newID,
	}
}

func (s *State) Now() time.Time { return s.now() }

// Pending is the text that Send would post for input.
func (s *State) Pending(input string) string {
	return s.Builder.Compose(input)
}

// Send appends the composed user message, hands over staged attachments and
// marks the state as waiting for a reply.
func (s *State) Send(input string) (model.Message, error) {
	text := s.Builder.Compose(input)
	if strings.TrimSpace(text) == "" {
		return model.Message{}, ErrEmptyMessage
	}
	if s.Processing {
		return model.Message{}, ErrProcessing
	}
	msg := s.appendMessage(model.RoleUser, text, s.Staging.Take())
	s.Builder.Reset()
	s.Processing = true
	return msg, nil
}

type Completion struct {
	Message  model.Message
	Failed   bool
	Unlocked []model.Achievement
}

// Complete appends the assistant turn for a pending request. A non-nil err
// appends the apology and leaves the metrics alone.
func (s *State) Complete(reply string, err error) Completion {
	s.Processing = false
	if err != nil || strings.TrimSpace(reply) == "" {
		return Completion{
			Message: s.appendMessage(model.RoleAssistant, assistant.ApologyMessage, nil),
			Failed:  true,
		}
	}
	msg := s.appendMessage(model.RoleAssistant, reply, nil)
	return Completion{
		Message:  msg,
		Unlocked: s.Tracker.RecordCompletion(s.now()),
	}
}

func (s *State) appendMessage(role model.Role, content string, atts []model.Attachment) model.Message {
	s.seq++
	msg := model.Message{
		ID:          strconv.Itoa(s.seq),
		Role:        role,
		Content:     content,
		Timestamp:   s.now(),
		Attachments: atts,
	}
	s.Messages = append(s.Messages, msg)
	return msg
}

func (s *State) Message(id string) (model.Message, bool) {
	for _, msg := range s.Messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return model.Message{}, false
}

// LastAssistantMessage is the newest assistant turn, if any.
func (s *State) LastAssistantMessage() (model.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == model.RoleAssistant {
			return s.Messages[i], true
		}
	}
	return model.Message{}, false
}

// ClearAndArchive moves the current conversation into history and starts an
// empty one. Composer state (selections, staged attachments) is reset even
// when there was nothing to archive.
func (s *State) ClearAndArchive(ctx context.Context) (Conversation, bool, error) {
	s.Builder.Reset()
	s.Staging.Reset()
	if len(s.Messages) == 0 {
		return Conversation{}, false, nil
	}
	conv := Conversation{
		ID:         s.newID(),
		Messages:   cloneMessages(s.Messages),
		ArchivedAt: s.now(),
	}
	if err := s.history.Archive(ctx, conv); err != nil {
		return Conversation{}, false, fmt.Errorf("archive conversation: %w", err)
	}
	s.Messages = nil
	return conv, true, nil
}

func (s *State) History(ctx context.Context) ([]Conversation, error) {
	return s.history.List(ctx)
}

func (s *State) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}

// AddReminder attaches a reminder to an assistant message.
func (s *State) AddReminder(messageID string, opt model.ReminderOption) (model.ActiveReminder, error) {
	msg, ok := s.Message(messageID)
	if !ok {
		return model.ActiveReminder{}, fmt.Errorf("%w: %q", ErrUnknownMessage, messageID)
	}
	if msg.Role != model.RoleAssistant {
		return model.ActiveReminder{}, ErrNotAssistantMessage
	}
	return s.Reminders.Add(messageID, opt, s.now()), nil
}

func (s *State) RemoveReminder(id string) (model.ActiveReminder, error) {
	rem, ok := s.Reminders.Remove(id)
	if !ok {
		return model.ActiveReminder{}, fmt.Errorf("%w: %q", ErrUnknownReminder, id)
	}
	return rem, nil
}
