package service

import "github.com/google/uuid"

// IBroadcaster pushes realtime events to every live session of one user.
// The websocket hub implements it; delivery is best-effort and never blocks
// or fails the caller.
type IBroadcaster interface {
	Publish(userID uuid.UUID, eventType string, payload interface{})
}
