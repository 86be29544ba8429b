package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProviderConfigRepository interface {
	Create(ctx context.Context, config *entity.ProviderConfig) error
	Update(ctx context.Context, config *entity.ProviderConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeactivateAllByUserId clears the active flag on every config of a user,
	// so at most one config can be active at a time.
	DeactivateAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderConfig, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
