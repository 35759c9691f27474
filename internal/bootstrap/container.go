package bootstrap

import (
	"context"
	"log"
	"time"

	"gymflow-be/internal/config"
	"gymflow-be/internal/controller"
	"gymflow-be/internal/handler"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/internal/service"
	"gymflow-be/internal/websocket"
	"gymflow-be/pkg/ai/recents"
	"gymflow-be/pkg/llm/factory"
	pktNats "gymflow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AiToolController controller.IAiToolController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	EventService    service.IEventService

	// WebSockets
	RecentsWsHandler *handler.RecentsWsHandler
	WebSocketHub     *websocket.Hub

	Logger logger.ILogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Work queue for recent saves. Publish returns once the consumer has
	// taken the message, so a nil error means the save was handed over.
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256, BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(ctx, factory.ProviderConfig{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		BaseURL:       cfg.Ai.BaseURL(),
		APIKey:        cfg.Ai.APIKey(),
		RetryAttempts: cfg.Ai.RetryAttempts,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure. NATS and Redis are optional.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	rdb := connectRedis(ctx, cfg.App.RedisURL)

	var locker recents.KeyLocker
	if rdb != nil {
		locker = recents.NewRedisLocker(rdb, cfg.Recents.LockTTL, cfg.Recents.LockWait)
	}

	// 5. Domain
	store := recents.NewStore(uowFactory, locker, sysLogger)
	preferenceService := service.NewPreferenceService(uowFactory, memory.NewPreferenceCache(cfg.Recents.PreferenceCacheTTL))

	var eventPub service.EventPublisher
	if natsPub != nil {
		eventPub = natsPub
	}
	var eventSub service.EventSubscriber
	if natsSub != nil {
		eventSub = natsSub
	}
	eventService := service.NewEventService(eventPub, eventSub, store, preferenceService, sysLogger)

	wsHub := websocket.NewHub(rdb, logger.NewIsolatedLogger(cfg.App.WsLogFilePath))

	publisherService := service.NewPublisherService(cfg.Recents.SaveTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Recents.SaveTopic,
		store,
		preferenceService,
		eventService,
		wsHub,
		sysLogger,
	)
	aiToolService := service.NewAiToolService(llmProvider, publisherService, store, preferenceService, sysLogger)

	return &Container{
		AiToolController: controller.NewAiToolController(aiToolService, cfg.Ai.GenerationTimeout),
		ConsumerService:  consumerService,
		EventService:     eventService,
		RecentsWsHandler: handler.NewRecentsWsHandler(wsHub, sysLogger),
		WebSocketHub:     wsHub,
		Logger:           sysLogger,
		pubSub:           pubSub,
		natsPub:          natsPub,
		natsSub:          natsSub,
		rdb:              rdb,
	}
}

// connectRedis returns nil when Redis is unreachable.
func connectRedis(ctx context.Context, url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Locking and cluster fan-out disabled", err)
		rdb.Close()
		return nil
	}
	return rdb
}

// CloseQueue stops the save queue. Later publishes fail and are logged, and
// the consumer drains what it already took.
func (c *Container) CloseQueue() {
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close work queue: %v", err)
	}
}

// Close releases the infrastructure clients, work queue first.
func (c *Container) Close() {
	c.CloseQueue()
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
