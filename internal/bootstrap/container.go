package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"dream-journal-be/internal/config"
	"dream-journal-be/internal/constant"
	"dream-journal-be/internal/controller"
	"dream-journal-be/internal/handler"
	"dream-journal-be/internal/pkg/logger"
	"dream-journal-be/internal/pkg/mailer"
	"dream-journal-be/internal/repository/unitofwork"
	"dream-journal-be/internal/service"
	"dream-journal-be/internal/websocket"
	"dream-journal-be/pkg/aicache"
	"dream-journal-be/pkg/embedding"
	"dream-journal-be/pkg/interpreter"
	"dream-journal-be/pkg/llm/openai"
	pkgNats "dream-journal-be/pkg/nats"
	"dream-journal-be/pkg/quota"
	"dream-journal-be/pkg/speech"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	DreamController        controller.IDreamController
	SubscriptionController controller.ISubscriptionController
	InternalController     controller.IInternalController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	UpdateHandler *handler.UpdateHandler
	WebSocketHub  *websocket.Hub

	// Shared handles for readiness checks
	DB    *gorm.DB
	Redis *redis.Client

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// In-process queue for embedding jobs
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// AI providers, all against the same OpenAI-compatible API
	llmProvider := openai.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.BaseURL, cfg.Ai.ChatModel)
	embeddingProvider := embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.BaseURL, cfg.Ai.EmbeddingModel)
	speechProvider := speech.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.BaseURL, cfg.Ai.TranscribeModel, cfg.Ai.TTSModel, cfg.Ai.TTSVoice)
	interp := interpreter.NewInterpreter(llmProvider, cfg.Ai.ChatModel)

	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	quotaCounter := quota.NewCounter(rdb, cfg.Quota.KeyPrefix, time.Duration(cfg.Quota.TTLSeconds)*time.Second, sysLogger)
	responseCache := aicache.NewCache(rdb, constant.AiCacheKeyPrefix, time.Duration(cfg.Ai.CacheTTLSeconds)*time.Second, sysLogger)

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/updates.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.EmbedTopic, uowFactory, embeddingProvider, cfg.Ai.EmbedBatchSize, sysLogger)

	authService := service.NewAuthService(uowFactory, emailService)
	oauthService := service.NewOAuthService(uowFactory, sysLogger)
	userService := service.NewUserService(uowFactory)

	subscriptionService := service.NewSubscriptionService(uowFactory, natsPub)
	paymentService := service.NewPaymentService(uowFactory, subscriptionService, natsPub, sysLogger)

	// Hourly sweep that lapses ended subscriptions and notifies their owners.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			expired, err := subscriptionService.SweepExpired(context.Background())
			if err != nil {
				sysLogger.Error("subscription", "expiry sweep failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			if expired > 0 {
				sysLogger.Info("subscription", "subscriptions expired", map[string]interface{}{"count": expired})
			}
		}
	}()

	embeddingService := service.NewEmbeddingService(uowFactory, cfg.Ai.EmbeddingModel, cfg.Ai.MinSimilarity, cfg.Ai.ContextSize)

	dreamService := service.NewDreamService(
		uowFactory,
		subscriptionService,
		embeddingService,
		interp,
		responseCache,
		quotaCounter,
		speechProvider,
		natsPub,
		publisherService,
		cfg.Ai.DefaultLanguage,
		sysLogger,
	)

	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	updateHandler := handler.NewUpdateHandler(wsHub, wsLogger)

	return &Container{
		AuthController:         controller.NewAuthController(authService),
		OAuthController:        controller.NewOAuthController(oauthService),
		UserController:         controller.NewUserController(userService),
		DreamController:        controller.NewDreamController(dreamService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService, paymentService),
		InternalController:     controller.NewInternalController(authService),

		ConsumerService: consumerService,

		UpdateHandler: updateHandler,
		WebSocketHub:  wsHub,

		DB:    db,
		Redis: rdb,

		Logger: sysLogger,
	}
}
