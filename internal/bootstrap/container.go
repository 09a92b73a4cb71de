package bootstrap

import (
	"context"
	"log"

	"context-engine-be/internal/config"
	"context-engine-be/internal/controller"
	"context-engine-be/internal/pkg/logger"
	"context-engine-be/internal/repository/memory"
	"context-engine-be/internal/repository/unitofwork"
	"context-engine-be/internal/service"
	"context-engine-be/pkg/question"

	pktNats "context-engine-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	InstructionController  controller.IInstructionController
	ConversationController controller.IConversationController
	PersonController       controller.IPersonController
	ContextController      controller.IContextController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS. Optional: person lifecycle events are best effort.
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// Redis. Optional second cache layer; the in-process layer still works
	// without it.
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Block cache runs in-process only", err)
		rdb = nil
	}

	blockCache := memory.NewContextBlockCache(rdb, cfg.Context.BlockCacheTTL)

	// 3. Services
	appliedPublisher := service.NewPublisherService(cfg.Context.AppliedTopic, pubSub)

	instructionService := service.NewInstructionService(uowFactory, blockCache)
	conversationService := service.NewConversationService(uowFactory, cfg.Context)
	personService := service.NewPersonService(uowFactory, eventPublisher, question.Template, cfg.Context, sysLogger)
	contextService := service.NewContextService(
		instructionService,
		conversationService,
		personService,
		appliedPublisher,
		blockCache,
		cfg.Context,
		sysLogger,
	)

	consumerService := service.NewConsumerService(pubSub, cfg.Context.AppliedTopic, uowFactory)

	// 4. Controllers
	return &Container{
		InstructionController:  controller.NewInstructionController(instructionService),
		ConversationController: controller.NewConversationController(conversationService),
		PersonController:       controller.NewPersonController(personService),
		ContextController:      controller.NewContextController(contextService),
		ConsumerService:        consumerService,
		Logger:                 sysLogger,
	}
}
