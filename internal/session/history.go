package session

import (
	"context"
	"sync"
	"time"

	"github.com/sandeepkv93/grace/internal/model"
)

// Conversation is one archived message list.
type Conversation struct {
	ID         string          `json:"id"`
	Messages   []model.Message `json:"messages"`
	ArchivedAt time.Time       `json:"archivedAt"`
}

// HistoryStore keeps archived conversations in archive order.
type HistoryStore interface {
	Archive(ctx context.Context, conv Conversation) error
	List(ctx context.Context) ([]Conversation, error)
	Clear(ctx context.Context) error
}

type MemoryHistory struct {
	mu    sync.Mutex
	items []Conversation
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Archive(_ context.Context, conv Conversation) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	conv.Messages = cloneMessages(conv.Messages)
	h.items = append(h.items, conv)
	return nil
}

func (h *MemoryHistory) List(_ context.Context) ([]Conversation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Conversation, len(h.items))
	for i, conv := range h.items {
		conv.Messages = cloneMessages(conv.Messages)
		out[i] = conv
	}
	return out, nil
}

func (h *MemoryHistory) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
	return nil
}

func cloneMessages(in []model.Message) []model.Message {
	if in == nil {
		return nil
	}
	out := make([]model.Message, len(in))
	for i, msg := range in {
		if msg.Attachments != nil {
			atts := make([]model.Attachment, len(msg.Attachments))
			copy(atts, msg.Attachments)
			msg.Attachments = atts
		}
		out[i] = msg
	}
	return out
}
