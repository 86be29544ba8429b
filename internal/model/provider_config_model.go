package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderConfig struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Provider  string         `gorm:"type:varchar(50);not null"`
	ApiKey    string         `gorm:"type:text"`
	Model     string         `gorm:"type:varchar(100)"`
	BaseURL   string         `gorm:"type:text"`
	IsActive  bool           `gorm:"default:false;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ProviderConfig) TableName() string {
	return "provider_configs"
}
