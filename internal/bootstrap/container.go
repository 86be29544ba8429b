package bootstrap

import (
	"context"
	"log"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/handler"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/store"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/generator"

	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const titleTopicName = "conversation_title_jobs"

type Container struct {
	// Controllers
	AuthController           controller.IAuthController
	UserController           controller.IUserController
	ConversationController   controller.IConversationController
	ProviderConfigController controller.IProviderConfigController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Stores and the response generator
	conversationStore := store.NewConversationStore(uowFactory)
	configCache := memory.NewProviderConfigCache()
	generatorFactory := generator.NewProviderFactory(
		uowFactory,
		configCache,
		cfg.Generator.DefaultProvider,
		cfg.Generator.OpenAIApiKey,
		cfg.Generator.OpenAIModel,
	)

	// 4. Services
	titlePublisher := service.NewPublisherService(titleTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		titleTopicName,
		conversationStore,
		wsHub,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, sysLogger)
	userService := service.NewUserService(uowFactory)
	providerConfigService := service.NewProviderConfigService(uowFactory, configCache)

	conversationService := service.NewConversationService(
		conversationStore,
		uowFactory,
		generatorFactory,
		wsHub,
		titlePublisher,
		natsPub,
		sysLogger,
	)

	// Audit worker tails the event bus
	if natsSub != nil {
		auditService := service.NewAuditService(natsSub, sysLogger)
		if err := auditService.Start(); err != nil {
			log.Printf("[WARN] Failed to start audit consumer: %v", err)
		}
	}

	// 5. Handlers and Controllers
	realtimeHandler := handler.NewRealtimeHandler(wsHub, wsLogger)

	return &Container{
		AuthController:           controller.NewAuthController(authService),
		UserController:           controller.NewUserController(userService),
		ConversationController:   controller.NewConversationController(conversationService),
		ProviderConfigController: controller.NewProviderConfigController(providerConfigService),

		ConsumerService: consumerService,

		RealtimeHandler: realtimeHandler,
		WebSocketHub:    wsHub,
	}
}
