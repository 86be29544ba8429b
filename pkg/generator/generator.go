package generator

import (
	"context"

	"ai-chat-be/internal/entity"
)

// Reply is the structured result of one generation call.
type Reply struct {
	Content     string
	Attachments []entity.Attachment
}

// Responder produces an assistant reply from the full conversation history
// and the requesting user's profile. Implementations may block for network
// round-trips; they must honor ctx cancellation and must not retry
// internally.
type Responder interface {
	Generate(ctx context.Context, history []*entity.Message, requester *entity.User) (*Reply, error)
}

// Factory resolves the Responder backing a given user, based on their active
// provider config. It always returns a usable Responder; resolution problems
// degrade to the default provider.
type Factory interface {
	ResponderFor(ctx context.Context, requester *entity.User) Responder
}
