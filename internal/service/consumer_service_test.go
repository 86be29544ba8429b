package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "short message unchanged",
			message: "How do goroutines work?",
			want:    "How do goroutines work?",
		},
		{
			name:    "whitespace collapsed",
			message: "  How   do\n\tgoroutines work?  ",
			want:    "How do goroutines work?",
		},
		{
			name:    "empty message",
			message: "   ",
			want:    "",
		},
		{
			name:    "long message cut at word boundary",
			message: "Can you explain how the Go scheduler distributes goroutines across operating system threads?",
			want:    "Can you explain how the Go scheduler distributes goroutines...",
		},
		{
			name:    "single long word cut hard",
			message: strings.Repeat("a", 100),
			want:    strings.Repeat("a", 60) + "...",
		},
		{
			name:    "multi-byte text cut at rune boundary",
			message: "a" + strings.Repeat("世", 30),
			want:    "a" + strings.Repeat("世", 19) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTitle(tt.message)
			if got != tt.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tt.want)
			}
			if len(got) > maxDerivedTitleLength+3 {
				t.Errorf("derived title too long: %d chars", len(got))
			}
			if !utf8.ValidString(got) {
				t.Errorf("derived title is not valid UTF-8: %q", got)
			}
		})
	}
}

func newConsumerFixture() (*consumerService, *fakeStore, *recordingBroadcaster) {
	store := newFakeStore()
	broadcaster := &recordingBroadcaster{}
	cs := &consumerService{
		store:       store,
		broadcaster: broadcaster,
		logger:      noopLogger{},
	}
	return cs, store, broadcaster
}

func titleJob(t *testing.T, conversationId, userId uuid.UUID, firstMessage string) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishDeriveTitleMessage{
		ConversationId: conversationId,
		UserId:         userId,
		FirstMessage:   firstMessage,
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func requireAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Fatal("expected message to be acked")
	}
}

func TestTitleJobRenamesAndBroadcasts(t *testing.T) {
	cs, store, broadcaster := newConsumerFixture()
	userId := uuid.New()
	conv, err := store.Create(context.Background(), userId, constant.DefaultConversationTitle)
	require.NoError(t, err)

	msg := titleJob(t, conv.Id, userId, "How do goroutines work?")
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
	events := broadcaster.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, constant.RealtimeEventConversationRenamed, events[0].eventType)
	evt := events[0].payload.(dto.ConversationRenamedEvent)
	assert.Equal(t, "How do goroutines work?", evt.Title)
}

func TestTitleJobRenameRacingDeleteAcks(t *testing.T) {
	cs, store, broadcaster := newConsumerFixture()
	userId := uuid.New()
	conv, err := store.Create(context.Background(), userId, constant.DefaultConversationTitle)
	require.NoError(t, err)

	// Conversation vanishes between the lookup and the rename
	store.dropOnRename = true

	msg := titleJob(t, conv.Id, userId, "Hello there")
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
	assert.Empty(t, broadcaster.recorded(), "a vanished conversation must not broadcast a rename")
}

func TestTitleJobUserRenameWins(t *testing.T) {
	cs, store, broadcaster := newConsumerFixture()
	userId := uuid.New()
	conv, err := store.Create(context.Background(), userId, constant.DefaultConversationTitle)
	require.NoError(t, err)
	_, err = store.Rename(context.Background(), conv.Id, "My own title")
	require.NoError(t, err)

	msg := titleJob(t, conv.Id, userId, "Hello there")
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
	assert.Empty(t, broadcaster.recorded())
}
