package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountByConversationIds returns message counts grouped by conversation.
	CountByConversationIds(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID]int64, error)
	// FindLastByConversationIds returns the newest message per conversation.
	FindLastByConversationIds(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID]*entity.Message, error)
}
