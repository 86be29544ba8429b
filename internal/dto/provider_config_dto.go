package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertProviderConfigRequest struct {
	Provider string `json:"provider" validate:"required,oneof=mock openai"`
	ApiKey   string `json:"api_key" validate:"omitempty,max=256"`
	Model    string `json:"model" validate:"omitempty,max=100"`
	BaseURL  string `json:"base_url" validate:"omitempty,url"`
}

// ProviderConfigResponse never echoes the stored key, only whether one exists.
type ProviderConfigResponse struct {
	Id        uuid.UUID `json:"id"`
	Provider  string    `json:"provider"`
	HasApiKey bool      `json:"has_api_key"`
	Model     string    `json:"model,omitempty"`
	BaseURL   string    `json:"base_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
