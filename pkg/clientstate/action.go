package clientstate

import "github.com/google/uuid"

// Action is a marker for state transitions fed to Reduce.
type Action interface {
	isAction()
}

// SummariesLoaded replaces the sidebar with a freshly fetched page.
type SummariesLoaded struct {
	Summaries []Summary
}

// ConversationOpened puts a fully loaded conversation on screen.
type ConversationOpened struct {
	Conversation Conversation
}

// ConversationClosed clears the open conversation.
type ConversationClosed struct{}

// SubmitStarted marks a message submission in flight.
type SubmitStarted struct {
	Draft string
}

// SubmitSucceeded carries the full conversation returned by the server.
type SubmitSucceeded struct {
	Conversation Conversation
}

// SubmitFailed keeps the draft so the user can retry.
type SubmitFailed struct {
	Err string
}

// MessageReceived is the realtime push for one message landing in a
// conversation of this user.
type MessageReceived struct {
	ConversationId uuid.UUID
	Message        Message
}

// ConversationRenamed is pushed when a conversation gets a new title,
// whether the user renamed it or the title worker did.
type ConversationRenamed struct {
	ConversationId uuid.UUID
	Title          string
}

// ConversationDeleted removes a conversation everywhere it appears.
type ConversationDeleted struct {
	ConversationId uuid.UUID
}

func (SummariesLoaded) isAction()     {}
func (ConversationOpened) isAction()  {}
func (ConversationClosed) isAction()  {}
func (SubmitStarted) isAction()       {}
func (SubmitSucceeded) isAction()     {}
func (SubmitFailed) isAction()        {}
func (MessageReceived) isAction()     {}
func (ConversationRenamed) isAction() {}
func (ConversationDeleted) isAction() {}
