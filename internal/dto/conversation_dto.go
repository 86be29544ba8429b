package dto

import (
	"time"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

type SubmitMessageRequest struct {
	Message     string              `json:"message" validate:"required"`
	Attachments []entity.Attachment `json:"attachments" validate:"omitempty,dive"`
}

type RenameConversationRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type MessageResponse struct {
	Id          uuid.UUID           `json:"id"`
	Role        string              `json:"role"`
	Content     string              `json:"content"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type ConversationResponse struct {
	Id        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ConversationSummaryResponse is the sidebar projection: no transcript, just
// enough to render and sort the list.
type ConversationSummaryResponse struct {
	Id           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	MessageCount int64            `json:"message_count"`
	LastMessage  *MessageResponse `json:"last_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type ConversationListResponse struct {
	Conversations []ConversationSummaryResponse `json:"conversations"`
	Pagination    Pagination                    `json:"pagination"`
}

type Pagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// MessageReceivedEvent is the realtime payload pushed to the owner's live
// sessions whenever a message lands in one of their conversations.
type MessageReceivedEvent struct {
	ConversationId uuid.UUID       `json:"conversation_id"`
	Message        MessageResponse `json:"message"`
}

type ConversationRenamedEvent struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	Title          string    `json:"title"`
}

// PublishDeriveTitleMessage is the queue payload that asks the title worker
// to name a conversation from its first user message.
type PublishDeriveTitleMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	UserId         uuid.UUID `json:"user_id"`
	FirstMessage   string    `json:"first_message"`
}
