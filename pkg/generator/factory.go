package generator

import (
	"context"
	"log"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
)

// ProviderFactory resolves responders from per-user provider configs,
// consulting the config cache before the database.
type ProviderFactory struct {
	uowFactory      unitofwork.RepositoryFactory
	configCache     *memory.ProviderConfigCache
	defaultProvider string
	defaultApiKey   string
	defaultModel    string
	mock            *MockResponder
}

func NewProviderFactory(
	uowFactory unitofwork.RepositoryFactory,
	configCache *memory.ProviderConfigCache,
	defaultProvider, defaultApiKey, defaultModel string,
) *ProviderFactory {
	return &ProviderFactory{
		uowFactory:      uowFactory,
		configCache:     configCache,
		defaultProvider: defaultProvider,
		defaultApiKey:   defaultApiKey,
		defaultModel:    defaultModel,
		mock:            NewMockResponder(),
	}
}

func (f *ProviderFactory) ResponderFor(ctx context.Context, requester *entity.User) Responder {
	config := f.activeConfig(ctx, requester)
	if config != nil && config.Provider == constant.GeneratorProviderOpenAI && config.ApiKey != "" {
		model := config.Model
		if model == "" {
			model = f.defaultModel
		}
		return NewOpenAIResponder(config.ApiKey, model, config.BaseURL)
	}

	if f.defaultProvider == constant.GeneratorProviderOpenAI && f.defaultApiKey != "" {
		return NewOpenAIResponder(f.defaultApiKey, f.defaultModel, "")
	}

	return f.mock
}

func (f *ProviderFactory) activeConfig(ctx context.Context, requester *entity.User) *entity.ProviderConfig {
	if config, found := f.configCache.Get(requester.Id); found {
		return config
	}

	uow := f.uowFactory.NewUnitOfWork(ctx)
	config, err := uow.ProviderConfigRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: requester.Id},
		specification.ActiveOnly{},
	)
	if err != nil {
		log.Printf("[WARN] Failed to load provider config for %s: %v", requester.Id, err)
		return nil
	}
	if config == nil {
		return nil
	}

	f.configCache.Save(requester.Id, config)
	return config
}
