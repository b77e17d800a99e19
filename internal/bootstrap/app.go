package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-chat/internal/app"
	"storefront-chat/internal/cache"
	"storefront-chat/internal/config"
	"storefront-chat/internal/model"
	"storefront-chat/internal/platform/logger"
	mysqlClient "storefront-chat/internal/platform/mysql"
	rabbitmqClient "storefront-chat/internal/platform/rabbitmq"
	redisClient "storefront-chat/internal/platform/redis"
	"storefront-chat/internal/repository"
	"storefront-chat/internal/responder"
	"storefront-chat/internal/worker"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	MySQL      *gorm.DB
	Redis      *redis.Client // nil unless the mirror lives in Redis
	MQConn     *amqp.Connection
	TurnWorker *worker.TurnEventWorker

	ChatService    *app.ChatService
	KeywordService *app.KeywordService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}).With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	a := &App{Config: cfg, Logger: log, StartedAt: time.Now()}
	if err := a.connect(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Config

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN(), logger.NewGormLogger(a.Logger, logger.GormLevel(cfg.Log.Level)))
	if err != nil {
		return err
	}
	a.MySQL = mysqlDB
	// orders belong to the storefront schema and are not migrated here
	if err := mysqlDB.AutoMigrate(&model.ChatMessage{}, &model.KeywordRule{}, &model.Conversation{}); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}

	if cfg.Chat.MirrorBackend == config.MirrorBackendRedis {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		a.Redis = redisCli
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.TurnEventQueue)
	if err != nil {
		return err
	}
	a.MQConn = mqConn
	return nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config

	messageRepo := repository.NewMessageRepository(a.MySQL)
	keywordRepo := repository.NewKeywordRepository(a.MySQL)
	orderRepo := repository.NewOrderRepository(a.MySQL)
	conversationRepo := repository.NewConversationRepository(a.MySQL)

	var mirror app.Mirror
	if a.Redis != nil {
		mirror = cache.NewRedisMirror(a.Redis, cfg.Chat.MirrorMaxMessages, time.Duration(cfg.Redis.MirrorTTLSeconds)*time.Second)
	} else {
		mirror = cache.NewMemoryMirror(cfg.Chat.MirrorMaxMessages, cfg.Chat.MirrorMaxConversations)
	}

	chatLog := a.Logger.Named("chat")
	a.ChatService = app.NewChatService(app.ChatServiceDeps{
		Extractor:             responder.NewExtractor(),
		Orders:                responder.NewOrderStatusResponder(orderRepo, cfg.Chat.OrderLookupTimeout(), chatLog),
		Keywords:              responder.NewKeywordMatcher(keywordRepo, cfg.Chat.KeywordLookupTimeout(), chatLog),
		Fallback:              responder.NewFallback(responder.RandomChooser),
		Store:                 app.NewConversationStore(messageRepo, mirror, chatLog),
		Publisher:             rabbitmqClient.NewTurnPublisher(a.MQConn, cfg.RabbitMQ.TurnEventQueue),
		Conversations:         conversationRepo,
		DefaultConversationID: cfg.Chat.DefaultConversationID,
		Logger:                chatLog,
	})
	a.KeywordService = app.NewKeywordService(keywordRepo)

	a.TurnWorker = worker.NewTurnEventWorker(a.MQConn, conversationRepo, cfg.RabbitMQ.TurnEventQueue, a.Logger)
	if err := a.TurnWorker.Start(ctx); err != nil {
		return fmt.Errorf("start turn event worker failed: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.TurnWorker != nil {
		a.TurnWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
