package store

import (
	"context"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ConversationStoreImpl backs the pipeline's ConversationStore contract with
// the unit-of-work layer. Append runs message insert + updated_at bump in one
// transaction.
type ConversationStoreImpl struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationStore(uowFactory unitofwork.RepositoryFactory) contract.ConversationStore {
	return &ConversationStoreImpl{
		uowFactory: uowFactory,
	}
}

func (s *ConversationStoreImpl) Create(ctx context.Context, ownerId uuid.UUID, title string) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    ownerId,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	conversation.Messages = []*entity.Message{}
	return conversation, nil
}

func (s *ConversationStoreImpl) GetById(ctx context.Context, id, ownerId uuid.UUID) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Single owner-scoped lookup. A foreign conversation is indistinguishable
	// from a missing one.
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, nil
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: id},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	conversation.Messages = messages
	return conversation, nil
}

func (s *ConversationStoreImpl) ListByOwner(ctx context.Context, ownerId uuid.UUID, limit, offset int) ([]*entity.Conversation, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ConversationRepository().Count(ctx,
		specification.UserOwnedBy{UserID: ownerId},
	)
	if err != nil {
		return nil, 0, err
	}

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: ownerId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

func (s *ConversationStoreImpl) AppendMessage(ctx context.Context, conversationId uuid.UUID, message *entity.Message) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	message.ConversationId = conversationId
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Touch(ctx, conversationId); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *ConversationStoreImpl) Rename(ctx context.Context, id uuid.UUID, title string) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, nil
	}

	conversation.Title = title
	conversation.UpdatedAt = time.Now()
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *ConversationStoreImpl) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByConversationId(ctx, id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}
