package contract

import (
	"context"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

// ConversationStore is the narrow persistence contract the message pipeline
// depends on. Reads that take an ownerId are scoped by id AND owner in a
// single lookup; a conversation owned by someone else behaves exactly like a
// missing one.
type ConversationStore interface {
	Create(ctx context.Context, ownerId uuid.UUID, title string) (*entity.Conversation, error)

	// GetById returns the conversation with its full transcript, or nil when
	// it does not exist for this owner.
	GetById(ctx context.Context, id, ownerId uuid.UUID) (*entity.Conversation, error)

	// ListByOwner returns a page of conversations ordered most recently
	// updated first, without transcripts, plus the total count.
	ListByOwner(ctx context.Context, ownerId uuid.UUID, limit, offset int) ([]*entity.Conversation, int64, error)

	// AppendMessage persists the message and bumps the conversation's
	// updated_at in one transaction. A reader never observes one without the
	// other.
	AppendMessage(ctx context.Context, conversationId uuid.UUID, message *entity.Message) error

	Rename(ctx context.Context, id uuid.UUID, title string) (*entity.Conversation, error)

	// Delete hard-deletes the conversation and its messages.
	Delete(ctx context.Context, id uuid.UUID) error
}
