package bootstrap

import (
	"context"
	"log"
	"time"

	"support-chat-be/internal/config"
	"support-chat-be/internal/controller"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/pkg/mailer"
	"support-chat-be/internal/repository/implementation"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/internal/service"
	"support-chat-be/internal/websocket"
	"support-chat-be/pkg/agent"
	"support-chat-be/pkg/blob"
	"support-chat-be/pkg/embedding"
	"support-chat-be/pkg/ingest"
	"support-chat-be/pkg/llm/factory"

	pktNats "support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ConversationController controller.IConversationController
	MessageController      controller.IMessageController
	FileController         controller.IFileController
	WidgetController       controller.IWidgetController
	NotificationController controller.INotificationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	now := time.Now

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	blobStore, err := blob.NewLocalStore(cfg.Blob.Dir, cfg.App.BaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize blob store: %v", err)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	extractor := ingest.NewExtractor(llmProvider)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

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

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	sessionCache := memory.NewSessionCache()
	accessGuard := service.NewAccessGuardService(uowFactory, sessionCache, now)
	sessionService := service.NewSessionService(
		uowFactory,
		sessionCache,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
		now,
	)

	publisherService := service.NewPublisherService(cfg.App.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopic,
		uowFactory,
		embeddingProvider,
	)

	supportAgent := agent.NewSupportAgent(
		llmProvider,
		embeddingProvider,
		implementation.NewFileEmbeddingRepository(db),
	)

	authService := service.NewAuthService(uowFactory, now)
	conversationService := service.NewConversationService(
		uowFactory,
		natsPub,
		emailService,
		cfg.Ai.GreetingMessage,
		sysLogger,
		now,
	)
	messageService := service.NewMessageService(
		uowFactory,
		supportAgent,
		natsPub,
		sysLogger,
		now,
	)
	fileService := service.NewFileService(
		uowFactory,
		blobStore,
		extractor,
		publisherService,
		natsPub,
		sysLogger,
		now,
	)

	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	// 6. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		ConversationController: controller.NewConversationController(conversationService, accessGuard),
		MessageController:      controller.NewMessageController(messageService, accessGuard),
		FileController:         controller.NewFileController(fileService, accessGuard),
		WidgetController:       controller.NewWidgetController(sessionService, conversationService, messageService, accessGuard),
		NotificationController: controller.NewNotificationController(wsHub, wsLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
