package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a titled, ordered transcript of messages owned by one user.
// Messages is the transcript in send order; it is only populated by reads
// that explicitly load it.
type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Messages  []*Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LastMessage returns the newest message of the transcript, or nil.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}
