package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/grace/internal/session"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the archive of cleared conversations.
type Repository interface {
	session.HistoryStore

	GetConversation(ctx context.Context, id string) (session.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	ListConversations(ctx context.Context, filter ConversationListFilter) ([]session.Conversation, error)
	CountConversations(ctx context.Context) (int, error)
}
