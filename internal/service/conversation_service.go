package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/generator"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ConversationListResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ConversationResponse, error)
	SubmitMessage(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID, req *dto.SubmitMessageRequest) (*dto.ConversationResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.RenameConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type conversationService struct {
	store            contract.ConversationStore
	uowFactory       unitofwork.RepositoryFactory
	generatorFactory generator.Factory
	broadcaster      IBroadcaster
	titlePublisher   IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewConversationService(
	store contract.ConversationStore,
	uowFactory unitofwork.RepositoryFactory,
	generatorFactory generator.Factory,
	broadcaster IBroadcaster,
	titlePublisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		store:            store,
		uowFactory:       uowFactory,
		generatorFactory: generatorFactory,
		broadcaster:      broadcaster,
		titlePublisher:   titlePublisher,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = constant.DefaultConversationTitle
	}
	if len(title) > constant.MaxTitleLength {
		return nil, serverutils.NewValidationError("title is too long")
	}

	conversation, err := s.store.Create(ctx, userId, title)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	s.publishEvent(ctx, events.TypeConversationCreated, map[string]interface{}{
		"conversation_id": conversation.Id,
		"user_id":         userId,
	})

	return toConversationResponse(conversation), nil
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ConversationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	conversations, total, err := s.store.ListByOwner(ctx, userId, limit, offset)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	summaries, err := s.buildSummaries(ctx, conversations)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	return &dto.ConversationListResponse{
		Conversations: summaries,
		Pagination: dto.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

func (s *conversationService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ConversationResponse, error) {
	conversation, err := s.store.GetById(ctx, id, userId)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("conversation not found")
	}

	return toConversationResponse(conversation), nil
}

// SubmitMessage runs the full exchange: persist the user's turn, ask the
// response generator for the assistant's turn, persist that too, then push
// both to the owner's live sessions. Generator failures degrade to a canned
// fallback turn so the transcript always grows by exactly two messages.
func (s *conversationService) SubmitMessage(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID, req *dto.SubmitMessageRequest) (*dto.ConversationResponse, error) {
	// 1. Validate before anything is persisted
	content := req.Message
	if strings.TrimSpace(content) == "" {
		return nil, serverutils.NewValidationError("message must not be empty")
	}
	if len(content) > constant.MaxMessageLength {
		return nil, serverutils.NewValidationError("message exceeds maximum length")
	}

	// 2. Owner-scoped load; foreign conversations look exactly like missing ones
	conversation, err := s.store.GetById(ctx, conversationId, userId)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("conversation not found")
	}

	requester, err := s.loadRequester(ctx, userId)
	if err != nil {
		return nil, err
	}

	// 3. Append the user's turn
	userMessage := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleUser,
		Content:        content,
		Attachments:    req.Attachments,
		CreatedAt:      time.Now(),
	}
	if err := s.store.AppendMessage(ctx, conversation.Id, userMessage); err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	firstExchange := len(conversation.Messages) == 0
	history := append(conversation.Messages, userMessage)

	// 4. Generate the assistant's turn; never surface generator errors
	assistantMessage := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleAssistant,
		CreatedAt:      time.Now(),
	}
	responder := s.generatorFactory.ResponderFor(ctx, requester)
	reply, genErr := responder.Generate(ctx, history, requester)
	if genErr != nil || reply == nil || strings.TrimSpace(reply.Content) == "" {
		if genErr != nil {
			s.logger.Warn("ConversationService", "Generator failed, using fallback", map[string]interface{}{
				"conversation_id": conversation.Id,
				"error":           genErr.Error(),
			})
		}
		assistantMessage.Content = constant.AssistantFallbackText
	} else {
		assistantMessage.Content = reply.Content
		assistantMessage.Attachments = reply.Attachments
	}

	if err := s.store.AppendMessage(ctx, conversation.Id, assistantMessage); err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	// 5. Both turns are durable; now fan out to the owner's live sessions
	s.broadcastMessage(userId, conversation.Id, userMessage)
	s.broadcastMessage(userId, conversation.Id, assistantMessage)

	s.publishEvent(ctx, events.TypeMessageReceived, map[string]interface{}{
		"conversation_id": conversation.Id,
		"user_id":         userId,
	})

	// 6. First exchange on an untitled conversation kicks off title derivation
	if firstExchange && conversation.Title == constant.DefaultConversationTitle {
		s.publishTitleJob(ctx, conversation.Id, userId, content)
	}

	conversation.Messages = append(conversation.Messages, userMessage, assistantMessage)
	conversation.UpdatedAt = assistantMessage.CreatedAt
	return toConversationResponse(conversation), nil
}

func (s *conversationService) Rename(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.RenameConversationRequest) (*dto.ConversationResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, serverutils.NewValidationError("title must not be empty")
	}
	if len(title) > constant.MaxTitleLength {
		return nil, serverutils.NewValidationError("title is too long")
	}

	// Ownership check first, rename is id-only
	existing, err := s.store.GetById(ctx, id, userId)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if existing == nil {
		return nil, serverutils.NewNotFoundError("conversation not found")
	}

	conversation, err := s.store.Rename(ctx, id, title)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	// Deleted between the ownership check and the rename
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("conversation not found")
	}

	s.broadcaster.Publish(userId, constant.RealtimeEventConversationRenamed, dto.ConversationRenamedEvent{
		ConversationId: conversation.Id,
		Title:          conversation.Title,
	})

	return toConversationResponse(conversation), nil
}

func (s *conversationService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	existing, err := s.store.GetById(ctx, id, userId)
	if err != nil {
		return serverutils.NewStoreError(err)
	}
	if existing == nil {
		return serverutils.NewNotFoundError("conversation not found")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return serverutils.NewStoreError(err)
	}

	s.publishEvent(ctx, events.TypeConversationDeleted, map[string]interface{}{
		"conversation_id": id,
		"user_id":         userId,
	})

	return nil
}

func (s *conversationService) loadRequester(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if user == nil {
		return nil, serverutils.NewUnauthorizedError("user not found")
	}
	return user, nil
}

func (s *conversationService) buildSummaries(ctx context.Context, conversations []*entity.Conversation) ([]dto.ConversationSummaryResponse, error) {
	summaries := make([]dto.ConversationSummaryResponse, 0, len(conversations))
	if len(conversations) == 0 {
		return summaries, nil
	}

	ids := make([]uuid.UUID, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.Id)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	counts, err := uow.MessageRepository().CountByConversationIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	lastMessages, err := uow.MessageRepository().FindLastByConversationIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range conversations {
		summary := dto.ConversationSummaryResponse{
			Id:           c.Id,
			Title:        c.Title,
			MessageCount: counts[c.Id],
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}
		if last := lastMessages[c.Id]; last != nil {
			resp := toMessageResponse(last)
			summary.LastMessage = &resp
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *conversationService) broadcastMessage(userId uuid.UUID, conversationId uuid.UUID, message *entity.Message) {
	s.broadcaster.Publish(userId, constant.RealtimeEventMessageReceived, dto.MessageReceivedEvent{
		ConversationId: conversationId,
		Message:        toMessageResponse(message),
	})
}

func (s *conversationService) publishTitleJob(ctx context.Context, conversationId, userId uuid.UUID, firstMessage string) {
	payload, err := json.Marshal(dto.PublishDeriveTitleMessage{
		ConversationId: conversationId,
		UserId:         userId,
		FirstMessage:   firstMessage,
	})
	if err != nil {
		return
	}
	if err := s.titlePublisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("ConversationService", "Failed to publish title job", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}
}

func (s *conversationService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Audit events are auxiliary, log and move on
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ConversationService", "Failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

func toMessageResponse(message *entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		Id:          message.Id,
		Role:        message.Role,
		Content:     message.Content,
		Attachments: message.Attachments,
		CreatedAt:   message.CreatedAt,
	}
}

func toConversationResponse(conversation *entity.Conversation) *dto.ConversationResponse {
	messages := make([]dto.MessageResponse, 0, len(conversation.Messages))
	for _, m := range conversation.Messages {
		messages = append(messages, toMessageResponse(m))
	}
	return &dto.ConversationResponse{
		Id:        conversation.Id,
		Title:     conversation.Title,
		Messages:  messages,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}
