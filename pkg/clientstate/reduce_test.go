package clientstate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(role, content string, at time.Time) Message {
	return Message{Id: uuid.New(), Role: role, Content: content, CreatedAt: at}
}

func TestReduceDuplicateMessageAppendedOnce(t *testing.T) {
	convId := uuid.New()
	now := time.Now()
	state := Reduce(NewState(), ConversationOpened{Conversation: Conversation{Id: convId}})

	received := msg("assistant", "Hello", now)
	state = Reduce(state, MessageReceived{ConversationId: convId, Message: received})
	state = Reduce(state, MessageReceived{ConversationId: convId, Message: received})

	require.NotNil(t, state.Open)
	assert.Len(t, state.Open.Messages, 1, "same message id must not append twice")
}

func TestReduceMessageForOtherConversationIgnoredByOpen(t *testing.T) {
	convId := uuid.New()
	state := Reduce(NewState(), ConversationOpened{Conversation: Conversation{Id: convId}})

	state = Reduce(state, MessageReceived{ConversationId: uuid.New(), Message: msg("assistant", "Elsewhere", time.Now())})

	assert.Empty(t, state.Open.Messages)
}

func TestReduceMessageReceivedBumpsSummary(t *testing.T) {
	now := time.Now()
	first := Summary{Id: uuid.New(), Title: "First", UpdatedAt: now}
	second := Summary{Id: uuid.New(), Title: "Second", UpdatedAt: now.Add(-time.Hour)}
	state := Reduce(NewState(), SummariesLoaded{Summaries: []Summary{first, second}})

	received := msg("assistant", "News", now.Add(time.Minute))
	state = Reduce(state, MessageReceived{ConversationId: second.Id, Message: received})

	require.Len(t, state.Summaries, 2)
	assert.Equal(t, second.Id, state.Summaries[0].Id, "updated conversation moves to the front")
	assert.Equal(t, int64(1), state.Summaries[0].MessageCount)
	require.NotNil(t, state.Summaries[0].LastMessage)
	assert.Equal(t, "News", state.Summaries[0].LastMessage.Content)

	// Same event again leaves the count alone
	state = Reduce(state, MessageReceived{ConversationId: second.Id, Message: received})
	assert.Equal(t, int64(1), state.Summaries[0].MessageCount)
}

func TestReduceSubmitLifecycle(t *testing.T) {
	convId := uuid.New()
	state := Reduce(NewState(), SummariesLoaded{Summaries: []Summary{{Id: convId, Title: "Chat"}}})
	state = Reduce(state, ConversationOpened{Conversation: Conversation{Id: convId, Title: "Chat"}})

	state = Reduce(state, SubmitStarted{Draft: "Hello"})
	assert.True(t, state.Sending)
	assert.Equal(t, "Hello", state.Draft)

	now := time.Now()
	full := Conversation{
		Id:    convId,
		Title: "Chat",
		Messages: []Message{
			msg("user", "Hello", now),
			msg("assistant", "Hi!", now.Add(time.Second)),
		},
		UpdatedAt: now.Add(time.Second),
	}
	state = Reduce(state, SubmitSucceeded{Conversation: full})

	assert.False(t, state.Sending)
	assert.Empty(t, state.Draft)
	require.NotNil(t, state.Open)
	assert.Len(t, state.Open.Messages, 2)
	assert.Equal(t, int64(2), state.Summaries[0].MessageCount)

	// The realtime echo of the same messages must not duplicate them
	state = Reduce(state, MessageReceived{ConversationId: convId, Message: full.Messages[1]})
	assert.Len(t, state.Open.Messages, 2)
}

func TestReduceSubmitSucceededInsertsNewSummary(t *testing.T) {
	// A conversation created in this session has no summary yet; the submit
	// response must put it in the sidebar without a refetch.
	now := time.Now()
	full := Conversation{
		Id:    uuid.New(),
		Title: "New Conversation",
		Messages: []Message{
			msg("user", "Hello", now),
			msg("assistant", "Hi!", now.Add(time.Second)),
		},
		UpdatedAt: now.Add(time.Second),
	}

	state := Reduce(NewState(), SubmitSucceeded{Conversation: full})

	require.Len(t, state.Summaries, 1)
	assert.Equal(t, full.Id, state.Summaries[0].Id)
	assert.Equal(t, "New Conversation", state.Summaries[0].Title)
	assert.Equal(t, int64(2), state.Summaries[0].MessageCount)
	require.NotNil(t, state.Summaries[0].LastMessage)
	assert.Equal(t, "Hi!", state.Summaries[0].LastMessage.Content)
}

func TestReduceMessageReceivedInsertsNewSummary(t *testing.T) {
	convId := uuid.New()
	received := msg("assistant", "Hello", time.Now())

	state := Reduce(NewState(), MessageReceived{ConversationId: convId, Message: received})

	require.Len(t, state.Summaries, 1)
	assert.Equal(t, convId, state.Summaries[0].Id)
	assert.Equal(t, int64(1), state.Summaries[0].MessageCount)
	require.NotNil(t, state.Summaries[0].LastMessage)

	// The same event again must not double-insert or double-count
	state = Reduce(state, MessageReceived{ConversationId: convId, Message: received})
	require.Len(t, state.Summaries, 1)
	assert.Equal(t, int64(1), state.Summaries[0].MessageCount)
}

func TestReduceSubmitFailedKeepsDraft(t *testing.T) {
	state := Reduce(NewState(), SubmitStarted{Draft: "Important question"})
	state = Reduce(state, SubmitFailed{Err: "storage operation failed"})

	assert.False(t, state.Sending)
	assert.Equal(t, "Important question", state.Draft)
	assert.Equal(t, "storage operation failed", state.Err)

	// Next action clears the error
	state = Reduce(state, ConversationClosed{})
	assert.Empty(t, state.Err)
}

func TestReduceRenameUpdatesOpenAndSummary(t *testing.T) {
	convId := uuid.New()
	state := Reduce(NewState(), SummariesLoaded{Summaries: []Summary{{Id: convId, Title: "Old"}}})
	state = Reduce(state, ConversationOpened{Conversation: Conversation{Id: convId, Title: "Old"}})

	state = Reduce(state, ConversationRenamed{ConversationId: convId, Title: "New"})

	assert.Equal(t, "New", state.Open.Title)
	assert.Equal(t, "New", state.Summaries[0].Title)
}

func TestReduceDeleteRemovesEverywhere(t *testing.T) {
	convId := uuid.New()
	other := Summary{Id: uuid.New(), Title: "Keep me"}
	state := Reduce(NewState(), SummariesLoaded{Summaries: []Summary{{Id: convId, Title: "Doomed"}, other}})
	state = Reduce(state, ConversationOpened{Conversation: Conversation{Id: convId}})

	state = Reduce(state, ConversationDeleted{ConversationId: convId})

	assert.Nil(t, state.Open)
	require.Len(t, state.Summaries, 1)
	assert.Equal(t, other.Id, state.Summaries[0].Id)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	convId := uuid.New()
	original := Reduce(NewState(), ConversationOpened{Conversation: Conversation{Id: convId}})

	_ = Reduce(original, MessageReceived{ConversationId: convId, Message: msg("assistant", "Hi", time.Now())})

	assert.Empty(t, original.Open.Messages, "reducer must not mutate its input state")
}
