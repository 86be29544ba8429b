// Package clientstate is a pure state container for chat frontends and SDK
// consumers. It mirrors the server's conversation model and folds REST
// responses and realtime events into one immutable State via Reduce.
//
// Realtime delivery is at-most-once and a submit response repeats the
// messages already pushed over the websocket, so the reducer deduplicates
// appends by message id. Feeding the same event twice is always safe.
package clientstate

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id        uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}

type Conversation struct {
	Id        uuid.UUID
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is one sidebar row. Summaries stay ordered most recently updated
// first.
type Summary struct {
	Id           uuid.UUID
	Title        string
	MessageCount int64
	LastMessage  *Message
	UpdatedAt    time.Time
}

type State struct {
	Summaries []Summary

	// Open is the conversation currently on screen, nil when none is.
	Open *Conversation

	// Sending is true between SubmitStarted and its outcome.
	Sending bool

	// Draft holds the in-flight message text so the UI can restore it on
	// failure.
	Draft string

	// Err is the last submit failure, cleared on the next action.
	Err string
}

// NewState returns the empty initial state.
func NewState() State {
	return State{}
}
