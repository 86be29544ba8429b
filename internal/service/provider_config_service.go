package service

import (
	"context"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProviderConfigService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.UpsertProviderConfigRequest) (*dto.ProviderConfigResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.ProviderConfigResponse, error)
	Activate(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProviderConfigResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

// providerConfigService manages per-user generator provider configs. At most
// one config per user is active; every write invalidates the config cache so
// the generator factory picks up the change on the next message.
type providerConfigService struct {
	uowFactory  unitofwork.RepositoryFactory
	configCache *memory.ProviderConfigCache
}

func NewProviderConfigService(uowFactory unitofwork.RepositoryFactory, configCache *memory.ProviderConfigCache) IProviderConfigService {
	return &providerConfigService{
		uowFactory:  uowFactory,
		configCache: configCache,
	}
}

func (s *providerConfigService) Create(ctx context.Context, userId uuid.UUID, req *dto.UpsertProviderConfigRequest) (*dto.ProviderConfigResponse, error) {
	now := time.Now()
	config := &entity.ProviderConfig{
		Id:        uuid.New(),
		UserId:    userId,
		Provider:  req.Provider,
		ApiKey:    req.ApiKey,
		Model:     req.Model,
		BaseURL:   req.BaseURL,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: &now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	defer uow.Rollback()

	// New config becomes the active one
	if err := uow.ProviderConfigRepository().DeactivateAllByUserId(ctx, userId); err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if err := uow.ProviderConfigRepository().Create(ctx, config); err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	s.configCache.Invalidate(userId)

	res := toProviderConfigResponse(config)
	return &res, nil
}

func (s *providerConfigService) List(ctx context.Context, userId uuid.UUID) ([]dto.ProviderConfigResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	configs, err := uow.ProviderConfigRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	responses := make([]dto.ProviderConfigResponse, 0, len(configs))
	for _, config := range configs {
		responses = append(responses, toProviderConfigResponse(config))
	}
	return responses, nil
}

func (s *providerConfigService) Activate(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProviderConfigResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	config, err := uow.ProviderConfigRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if config == nil {
		return nil, serverutils.NewNotFoundError("provider config not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	defer uow.Rollback()

	if err := uow.ProviderConfigRepository().DeactivateAllByUserId(ctx, userId); err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	config.IsActive = true
	now := time.Now()
	config.UpdatedAt = &now
	if err := uow.ProviderConfigRepository().Update(ctx, config); err != nil {
		return nil, serverutils.NewStoreError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewStoreError(err)
	}

	s.configCache.Invalidate(userId)

	res := toProviderConfigResponse(config)
	return &res, nil
}

func (s *providerConfigService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	config, err := uow.ProviderConfigRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return serverutils.NewStoreError(err)
	}
	if config == nil {
		return serverutils.NewNotFoundError("provider config not found")
	}

	if err := uow.ProviderConfigRepository().Delete(ctx, id); err != nil {
		return serverutils.NewStoreError(err)
	}

	s.configCache.Invalidate(userId)
	return nil
}

func toProviderConfigResponse(config *entity.ProviderConfig) dto.ProviderConfigResponse {
	return dto.ProviderConfigResponse{
		Id:        config.Id,
		Provider:  config.Provider,
		HasApiKey: config.ApiKey != "",
		Model:     config.Model,
		BaseURL:   config.BaseURL,
		IsActive:  config.IsActive,
		CreatedAt: config.CreatedAt,
		UpdatedAt: config.UpdatedAt,
	}
}
