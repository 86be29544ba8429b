package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderConfig is a per-user API provider configuration. The active config
// decides which response generator backs the user's conversations.
type ProviderConfig struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Provider  string
	ApiKey    string
	Model     string
	BaseURL   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
