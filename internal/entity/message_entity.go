package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one immutable turn in a conversation. Seq is assigned by the
// database on insert and defines the transcript order.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           string
	Content        string
	Attachments    []Attachment
	Seq            int64
	CreatedAt      time.Time
}

// Attachment is a tagged variant owned by exactly one message. Type selects
// which of the remaining fields are meaningful.
type Attachment struct {
	Type     string                 `json:"type"`
	Language string                 `json:"language,omitempty"` // code
	Source   string                 `json:"source,omitempty"`   // code
	URL      string                 `json:"url,omitempty"`      // image, file
	Name     string                 `json:"name,omitempty"`     // file
	Metadata map[string]interface{} `json:"metadata,omitempty"` // file
	Chart    string                 `json:"chart,omitempty"`    // visualization
	Data     map[string]interface{} `json:"data,omitempty"`     // visualization
}
