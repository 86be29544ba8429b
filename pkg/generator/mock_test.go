package generator

import (
	"context"
	"strings"
	"testing"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockResponderEchoesLastUserMessage(t *testing.T) {
	responder := NewMockResponder()
	requester := &entity.User{Id: uuid.New(), FullName: "Alex"}

	history := []*entity.Message{
		{Role: constant.MessageRoleUser, Content: "first question"},
		{Role: constant.MessageRoleAssistant, Content: "first answer"},
		{Role: constant.MessageRoleUser, Content: "what about generics?"},
	}

	reply, err := responder.Generate(context.Background(), history, requester)
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "what about generics?")
	assert.Contains(t, reply.Content, "Alex")
	assert.Empty(t, reply.Attachments)
}

func TestMockResponderAttachesCodeSample(t *testing.T) {
	responder := NewMockResponder()
	requester := &entity.User{Id: uuid.New(), FullName: "Alex"}

	history := []*entity.Message{
		{Role: constant.MessageRoleUser, Content: "show me some Code please"},
	}

	reply, err := responder.Generate(context.Background(), history, requester)
	require.NoError(t, err)
	require.Len(t, reply.Attachments, 1)
	assert.Equal(t, constant.AttachmentTypeCode, reply.Attachments[0].Type)
	assert.Equal(t, "go", reply.Attachments[0].Language)
}

func TestMockResponderEmptyHistory(t *testing.T) {
	responder := NewMockResponder()
	requester := &entity.User{Id: uuid.New(), FullName: "Alex"}

	reply, err := responder.Generate(context.Background(), nil, requester)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Content)
}

func TestMockResponderHonorsCancelledContext(t *testing.T) {
	responder := NewMockResponder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := responder.Generate(ctx, nil, &entity.User{FullName: "Alex"})
	assert.Error(t, err)
}

func TestMockResponderTruncatesLongEcho(t *testing.T) {
	responder := NewMockResponder()
	requester := &entity.User{Id: uuid.New(), FullName: "Alex"}

	long := strings.Repeat("x", 500)
	history := []*entity.Message{{Role: constant.MessageRoleUser, Content: long}}

	reply, err := responder.Generate(context.Background(), history, requester)
	require.NoError(t, err)
	assert.NotContains(t, reply.Content, long)
}
