package storage

// ConversationListFilter pages through the archive in archive order.
type ConversationListFilter struct {
	Limit  int
	Offset int
}
