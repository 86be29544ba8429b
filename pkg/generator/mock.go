package generator

import (
	"context"
	"fmt"
	"strings"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"
)

// MockResponder is the default backend: a canned responder that needs no
// network or credentials. Useful for development and demos.
type MockResponder struct{}

func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

var cannedOpeners = []string{
	"Here's what I think:",
	"Good question.",
	"Let me take a look at that.",
	"Sure, I can help with that.",
}

func (r *MockResponder) Generate(ctx context.Context, history []*entity.Message, requester *entity.User) (*Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lastUser *entity.Message
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == constant.MessageRoleUser {
			lastUser = history[i]
			break
		}
	}
	if lastUser == nil {
		return &Reply{Content: "Hi! What would you like to talk about?"}, nil
	}

	opener := cannedOpeners[len(history)%len(cannedOpeners)]
	reply := &Reply{
		Content: fmt.Sprintf("%s You said: %q. This is a mocked reply for %s.",
			opener, truncate(lastUser.Content, 120), requester.FullName),
	}

	// Demonstrate structured attachments when the prompt asks for code.
	if strings.Contains(strings.ToLower(lastUser.Content), "code") {
		reply.Attachments = append(reply.Attachments, entity.Attachment{
			Type:     constant.AttachmentTypeCode,
			Language: "go",
			Source:   "package main\n\nfunc main() {\n\tprintln(\"hello\")\n}\n",
		})
	}

	return reply, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
