package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/generator"

	"ai-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ConversationStore. It mirrors the real store's
// behavior: owner-scoped reads, seq assignment on append, updated_at bumps.
type fakeStore struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*entity.Conversation
	nextSeq       int64
	appendErr     error

	// dropOnRename deletes the conversation at the start of Rename, simulating
	// a delete landing between the ownership check and the rename.
	dropOnRename bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{conversations: make(map[uuid.UUID]*entity.Conversation)}
}

func (s *fakeStore) Create(ctx context.Context, ownerId uuid.UUID, title string) (*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    ownerId,
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.conversations[conv.Id] = conv
	return cloneConversation(conv), nil
}

func (s *fakeStore) GetById(ctx context.Context, id, ownerId uuid.UUID) (*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok || conv.UserId != ownerId {
		return nil, nil
	}
	return cloneConversation(conv), nil
}

func (s *fakeStore) ListByOwner(ctx context.Context, ownerId uuid.UUID, limit, offset int) ([]*entity.Conversation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Conversation
	for _, conv := range s.conversations {
		if conv.UserId == ownerId {
			c := cloneConversation(conv)
			c.Messages = nil
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) AppendMessage(ctx context.Context, conversationId uuid.UUID, message *entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	conv, ok := s.conversations[conversationId]
	if !ok {
		return errors.New("conversation missing")
	}
	s.nextSeq++
	message.Seq = s.nextSeq
	conv.Messages = append(conv.Messages, message)
	conv.UpdatedAt = message.CreatedAt
	return nil
}

func (s *fakeStore) Rename(ctx context.Context, id uuid.UUID, title string) (*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dropOnRename {
		delete(s.conversations, id)
	}
	// Like the real store: nil, nil when the row is gone
	conv, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	conv.Title = title
	conv.UpdatedAt = time.Now()
	return cloneConversation(conv), nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

func (s *fakeStore) messageCount(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return 0
	}
	return len(conv.Messages)
}

func cloneConversation(conv *entity.Conversation) *entity.Conversation {
	c := *conv
	c.Messages = append([]*entity.Message(nil), conv.Messages...)
	return &c
}

// fakeResponder returns a fixed reply or error.
type fakeResponder struct {
	reply *generator.Reply
	err   error
}

func (r *fakeResponder) Generate(ctx context.Context, history []*entity.Message, requester *entity.User) (*generator.Reply, error) {
	return r.reply, r.err
}

type fakeFactory struct {
	responder generator.Responder
}

func (f *fakeFactory) ResponderFor(ctx context.Context, requester *entity.User) generator.Responder {
	return f.responder
}

// recordingBroadcaster captures published realtime events.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	userID    uuid.UUID
	eventType string
	payload   interface{}
}

func (b *recordingBroadcaster) Publish(userID uuid.UUID, eventType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{userID: userID, eventType: eventType, payload: payload})
}

func (b *recordingBroadcaster) recorded() []broadcastEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]broadcastEvent(nil), b.events...)
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// fakeUowFactory wires fake repositories behind the UnitOfWork interface.
type fakeUowFactory struct {
	users    *fakeUserRepo
	messages *fakeMessageRepo
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{users: f.users, messages: f.messages}
}

type fakeUow struct {
	users    *fakeUserRepo
	messages *fakeMessageRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return u.users }
func (u *fakeUow) ConversationRepository() contract.ConversationRepository {
	return nil
}
func (u *fakeUow) MessageRepository() contract.MessageRepository { return u.messages }
func (u *fakeUow) ProviderConfigRepository() contract.ProviderConfigRepository {
	return nil
}

type fakeUserRepo struct {
	user *entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.user, nil
}
func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeMessageRepo struct {
	store *fakeStore
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error { return nil }
func (r *fakeMessageRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	return nil
}
func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	return nil, nil
}
func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	return nil, nil
}
func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeMessageRepo) CountByConversationIds(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range conversationIds {
		if conv, ok := r.store.conversations[id]; ok {
			out[id] = int64(len(conv.Messages))
		}
	}
	return out, nil
}
func (r *fakeMessageRepo) FindLastByConversationIds(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID]*entity.Message, error) {
	out := make(map[uuid.UUID]*entity.Message)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range conversationIds {
		if conv, ok := r.store.conversations[id]; ok && len(conv.Messages) > 0 {
			out[id] = conv.Messages[len(conv.Messages)-1]
		}
	}
	return out, nil
}

type serviceFixture struct {
	service     IConversationService
	store       *fakeStore
	broadcaster *recordingBroadcaster
	publisher   *recordingPublisher
	userId      uuid.UUID
}

func newServiceFixture(t *testing.T, responder generator.Responder) *serviceFixture {
	t.Helper()
	userId := uuid.New()
	store := newFakeStore()
	broadcaster := &recordingBroadcaster{}
	publisher := &recordingPublisher{}
	uowFactory := &fakeUowFactory{
		users:    &fakeUserRepo{user: &entity.User{Id: userId, FullName: "Test User", Email: "test@example.com"}},
		messages: &fakeMessageRepo{store: store},
	}

	svc := NewConversationService(
		store,
		uowFactory,
		&fakeFactory{responder: responder},
		broadcaster,
		publisher,
		nil,
		noopLogger{},
	)

	return &serviceFixture{
		service:     svc,
		store:       store,
		broadcaster: broadcaster,
		publisher:   publisher,
		userId:      userId,
	}
}

func (f *serviceFixture) createConversation(t *testing.T, title string) *dto.ConversationResponse {
	t.Helper()
	conv, err := f.service.Create(context.Background(), f.userId, &dto.CreateConversationRequest{Title: title})
	require.NoError(t, err)
	return conv
}

func TestSubmitMessageAppendsBothTurns(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Hello back!"}})
	conv := fixture.createConversation(t, "Greetings")

	res, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "Hello there",
	})
	require.NoError(t, err)

	require.Len(t, res.Messages, 2)
	assert.Equal(t, constant.MessageRoleUser, res.Messages[0].Role)
	assert.Equal(t, "Hello there", res.Messages[0].Content)
	assert.Equal(t, constant.MessageRoleAssistant, res.Messages[1].Role)
	assert.Equal(t, "Hello back!", res.Messages[1].Content)

	assert.Equal(t, 2, fixture.store.messageCount(conv.Id))
}

func TestSubmitMessageBroadcastsBothTurnsInOrder(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Realtime")

	_, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "Ping",
	})
	require.NoError(t, err)

	var messageEvents []broadcastEvent
	for _, evt := range fixture.broadcaster.recorded() {
		if evt.eventType == constant.RealtimeEventMessageReceived {
			messageEvents = append(messageEvents, evt)
		}
	}
	require.Len(t, messageEvents, 2)

	first := messageEvents[0].payload.(dto.MessageReceivedEvent)
	second := messageEvents[1].payload.(dto.MessageReceivedEvent)
	assert.Equal(t, fixture.userId, messageEvents[0].userID)
	assert.Equal(t, conv.Id, first.ConversationId)
	assert.Equal(t, constant.MessageRoleUser, first.Message.Role)
	assert.Equal(t, constant.MessageRoleAssistant, second.Message.Role)
}

func TestSubmitMessageGeneratorFailureFallsBack(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{err: errors.New("provider down")})
	conv := fixture.createConversation(t, "Flaky")

	res, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "Anyone home?",
	})
	require.NoError(t, err)

	require.Len(t, res.Messages, 2)
	assert.Equal(t, constant.AssistantFallbackText, res.Messages[1].Content)
	assert.Equal(t, 2, fixture.store.messageCount(conv.Id))
}

func TestSubmitMessageEmptyReplyFallsBack(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "   "}})
	conv := fixture.createConversation(t, "Silent")

	res, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "Say something",
	})
	require.NoError(t, err)
	assert.Equal(t, constant.AssistantFallbackText, res.Messages[1].Content)
}

func TestSubmitMessageForeignConversationNotFound(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Private")

	stranger := uuid.New()
	_, err := fixture.service.SubmitMessage(context.Background(), stranger, conv.Id, &dto.SubmitMessageRequest{
		Message: "Let me in",
	})

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.KindNotFound, appErr.Kind)
	assert.Equal(t, 0, fixture.store.messageCount(conv.Id))
}

func TestSubmitMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{name: "empty message", message: ""},
		{name: "whitespace only", message: "   \n\t "},
		{name: "over max length", message: strings.Repeat("a", constant.MaxMessageLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
			conv := fixture.createConversation(t, "Strict")

			_, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
				Message: tt.message,
			})

			var appErr *serverutils.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, serverutils.KindValidation, appErr.Kind)
			assert.Equal(t, 0, fixture.store.messageCount(conv.Id), "validation failure must not persist anything")
			assert.Empty(t, fixture.broadcaster.recorded())
		})
	}
}

func TestSubmitMessageMaxLengthBoundary(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Boundary")

	_, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: strings.Repeat("a", constant.MaxMessageLength),
	})
	assert.NoError(t, err)
}

func TestSubmitMessageAppendFailureIsStoreError(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Broken")
	fixture.store.appendErr = errors.New("disk full")

	_, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "Hello",
	})

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.KindStore, appErr.Kind)
}

func TestSubmitMessagePublishesTitleJobOnFirstExchange(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "")

	_, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "How do goroutines work?",
	})
	require.NoError(t, err)
	assert.Len(t, fixture.publisher.payloads, 1, "first exchange should queue a title job")

	_, err = fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "And channels?",
	})
	require.NoError(t, err)
	assert.Len(t, fixture.publisher.payloads, 1, "later exchanges should not queue more title jobs")
}

func TestSubmitMessageNoTitleJobForNamedConversation(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Already named")

	_, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "Hello",
	})
	require.NoError(t, err)
	assert.Empty(t, fixture.publisher.payloads)
}

func TestCreateDefaultsTitle(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})

	conv := fixture.createConversation(t, "  ")
	assert.Equal(t, constant.DefaultConversationTitle, conv.Title)
}

func TestRenameBroadcastsAndValidates(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Old title")

	res, err := fixture.service.Rename(context.Background(), fixture.userId, conv.Id, &dto.RenameConversationRequest{
		Title: "New title",
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", res.Title)

	events := fixture.broadcaster.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, constant.RealtimeEventConversationRenamed, events[0].eventType)

	_, err = fixture.service.Rename(context.Background(), fixture.userId, conv.Id, &dto.RenameConversationRequest{
		Title: "  ",
	})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.KindValidation, appErr.Kind)
}

func TestRenameForeignConversationNotFound(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Mine")

	_, err := fixture.service.Rename(context.Background(), uuid.New(), conv.Id, &dto.RenameConversationRequest{
		Title: "Theirs now",
	})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.KindNotFound, appErr.Kind)
}

func TestRenameRacingDeleteNotFound(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Mine")
	fixture.store.dropOnRename = true

	_, err := fixture.service.Rename(context.Background(), fixture.userId, conv.Id, &dto.RenameConversationRequest{
		Title: "Too late",
	})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.KindNotFound, appErr.Kind)
	assert.Empty(t, fixture.broadcaster.recorded(), "a vanished conversation must not broadcast a rename")
}

func TestDeleteThenShowNotFound(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "Reply"}})
	conv := fixture.createConversation(t, "Ephemeral")

	require.NoError(t, fixture.service.Delete(context.Background(), fixture.userId, conv.Id))

	_, err := fixture.service.Show(context.Background(), fixture.userId, conv.Id)
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.KindNotFound, appErr.Kind)
}

func TestListBuildsSummaries(t *testing.T) {
	fixture := newServiceFixture(t, &fakeResponder{reply: &generator.Reply{Content: "The answer"}})
	conv := fixture.createConversation(t, "Summarized")

	_, err := fixture.service.SubmitMessage(context.Background(), fixture.userId, conv.Id, &dto.SubmitMessageRequest{
		Message: "The question",
	})
	require.NoError(t, err)

	res, err := fixture.service.List(context.Background(), fixture.userId, 20, 0)
	require.NoError(t, err)
	require.Len(t, res.Conversations, 1)

	summary := res.Conversations[0]
	assert.Equal(t, conv.Id, summary.Id)
	assert.Equal(t, int64(2), summary.MessageCount)
	require.NotNil(t, summary.LastMessage)
	assert.Equal(t, "The answer", summary.LastMessage.Content)
	assert.Equal(t, int64(1), res.Pagination.Total)
}
