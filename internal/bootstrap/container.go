package bootstrap

import (
	"log"
	"time"

	"ecom-support-widget/internal/config"
	"ecom-support-widget/internal/controller"
	"ecom-support-widget/internal/pkg/logger"
	"ecom-support-widget/internal/repository/implementation"
	"ecom-support-widget/internal/service"
	"ecom-support-widget/pkg/botapi"
	"ecom-support-widget/pkg/payload"
	"ecom-support-widget/pkg/render"
	"ecom-support-widget/pkg/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const transcriptTopic = "conversation.turns"

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	AdminController controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Session Persistence
	// Redis when configured, in-process cache otherwise (single-node dev).
	var sessionStore session.Store
	if cfg.App.RedisURL != "" && cfg.App.RedisURL != "memory" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		sessionStore = session.NewRedisStore(redis.NewClient(opt))
		log.Printf("[INFO] Using session store: REDIS")
	} else {
		sessionStore = session.NewMemoryStore()
		log.Printf("[INFO] Using session store: MEMORY")
	}

	// 4. Rendering Pipeline
	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize renderer: %v", err)
	}
	normalizer := payload.NewNormalizer()

	botClient := botapi.NewClient(
		cfg.Bot.BaseURL,
		cfg.Bot.APIKey,
		time.Duration(cfg.Bot.Timeout)*time.Second,
		botapi.DefaultRetryPolicy(),
	)

	// 5. Repositories
	conversationRepo := implementation.NewConversationRepository(db)
	adminUserRepo := implementation.NewAdminUserRepository(db)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, transcriptTopic)
	consumerService := service.NewConsumerService(pubSub, transcriptTopic, conversationRepo, sysLogger)
	chatService := service.NewChatService(botClient, normalizer, renderer, sessionStore, publisherService, sysLogger)
	adminService := service.NewAdminService(conversationRepo, adminUserRepo, cfg, sysLogger)

	// 7. Controllers
	chatController := controller.NewChatController(chatService)
	adminController := controller.NewAdminController(adminService)

	return &Container{
		ChatController:  chatController,
		AdminController: adminController,
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
