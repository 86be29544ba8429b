package mapper

import (
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"

	"gorm.io/gorm"
)

type ProviderConfigMapper struct{}

func NewProviderConfigMapper() *ProviderConfigMapper {
	return &ProviderConfigMapper{}
}

func (m *ProviderConfigMapper) ToEntity(c *model.ProviderConfig) *entity.ProviderConfig {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProviderConfig{
		Id:        c.Id,
		UserId:    c.UserId,
		Provider:  c.Provider,
		ApiKey:    c.ApiKey,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *ProviderConfigMapper) ToModel(c *entity.ProviderConfig) *model.ProviderConfig {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.ProviderConfig{
		Id:        c.Id,
		UserId:    c.UserId,
		Provider:  c.Provider,
		ApiKey:    c.ApiKey,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
