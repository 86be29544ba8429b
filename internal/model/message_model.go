package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Message rows are append-only. Seq is a bigserial and defines transcript
// order regardless of created_at ties.
type Message struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(50);not null"`
	Content        string    `gorm:"type:text;not null"`
	Attachments    datatypes.JSON
	Seq            int64     `gorm:"autoIncrement;uniqueIndex"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
