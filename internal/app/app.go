package app

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"revjobs-messaging/internal/api/http/handler"
	"revjobs-messaging/internal/api/http/route"
	"revjobs-messaging/internal/apperrors"
	"revjobs-messaging/internal/config"
	"revjobs-messaging/internal/model"
	"revjobs-messaging/internal/msg/outbox"
	"revjobs-messaging/internal/notify"
	"revjobs-messaging/internal/repository"
	"revjobs-messaging/internal/service"
	"revjobs-messaging/pkg/jwt"
	"revjobs-messaging/pkg/kafka"
	"revjobs-messaging/pkg/postgres"
	"revjobs-messaging/pkg/redis"
	"revjobs-messaging/pkg/search"
	"revjobs-messaging/pkg/server"
)

const defaultTimeout = 15 * time.Second

type MessageRepository interface {
	Begin(ctx context.Context) (pgx.Tx, error)

	Save(ctx context.Context, ext repository.RepoExtension, message *model.Message) error
	SaveAll(ctx context.Context, ext repository.RepoExtension, messages []*model.Message) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id string) (*model.Message, error)
	SelectConversation(ctx context.Context, ext repository.RepoExtension, userA, userB int64) ([]*model.Message, error)
	SelectByParticipant(ctx context.Context, ext repository.RepoExtension, userID int64) ([]*model.Message, error)
	SelectUnreadByReceiver(ctx context.Context, ext repository.RepoExtension, userID int64) ([]*model.Message, error)
	CountUnreadByReceiver(ctx context.Context, ext repository.RepoExtension, userID int64) (int64, error)
}

type OutboxRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, message model.OutboxMessage) error
	UpdateAsSent(ctx context.Context, ext repository.RepoExtension, messageID uuid.UUID) error
	SelectUnsentBatch(ctx context.Context, ext repository.RepoExtension, batchSize int) ([]model.OutboxMessage, error)
}

type SearchRepository interface {
	EnsureIndex(ctx context.Context) error
	Index(ctx context.Context, message *model.Message) error
	Search(ctx context.Context, userID int64, query string) ([]*model.Message, error)
}

type HealthRepository interface {
	Ping(ctx context.Context) error
}

type MessageService interface {
	SendMessage(ctx context.Context, req *model.MessageCreateRequest) (*model.Message, error)
	GetConversation(ctx context.Context, userA, userB int64) ([]*model.Message, error)
	GetUserMessages(ctx context.Context, userID int64) ([]*model.Message, error)
	GetUnreadMessages(ctx context.Context, userID int64) ([]*model.Message, error)
	GetUnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id string) (*model.Message, error)
	MarkConversationAsRead(ctx context.Context, userID, otherUserID int64) error
	SearchMessages(ctx context.Context, userID int64, query string) ([]*model.Message, error)
}

type HealthService interface {
	Check(ctx context.Context) error
}

type MessageHandler interface {
	SendMessage(c *gin.Context)
	GetConversation(c *gin.Context)
	GetUserMessages(c *gin.Context)
	GetUnreadMessages(c *gin.Context)
	GetUnreadCount(c *gin.Context)
	MarkAsRead(c *gin.Context)
	MarkConversationAsRead(c *gin.Context)
	SearchMessages(c *gin.Context)
}

type HealthHandler interface {
	Ping(c *gin.Context)
	Health(c *gin.Context)
}

type WSHandler interface {
	LiveSession(c *gin.Context)
}

type Publisher interface {
	Run(ctx context.Context)
}

type App struct {
	Cfg        *config.Config
	Log        *zap.Logger
	Handler    *Handler
	Service    *Service
	Security   *Security
	DB         postgres.Postgres
	RDB        redis.Redis
	Hub        *notify.Hub
	HTTPServer server.HTTPServer
	EBus       *EBus
}

type Repository struct {
	MessageRepository MessageRepository
	OutboxRepository  OutboxRepository
	SearchRepository  SearchRepository
	HealthRepository  HealthRepository
}

type Service struct {
	MessageService MessageService
	HealthService  HealthService
}

type Handler struct {
	MessageHandler MessageHandler
	HealthHandler  HealthHandler
	WSHandler      WSHandler
}

type Security struct {
	PublicKey *ecdsa.PublicKey
}

type EBus struct {
	OutboxPublisher Publisher
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := initDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := initRedis(&cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize redis", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	sec, err := initSecurity(log, cfg.Key)
	if err != nil {
		log.Error("Failed to initialize security", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize security: %w", err)
	}

	repo, err := initRepository(ctx, log, db, &cfg.Elastic)
	if err != nil {
		log.Error("Failed to initialize repository", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	hub := notify.NewHub(log, rdb.Client())

	svc := initService(log, repo, rdb)

	hdl := initHandler(log, svc, hub)

	httpServer := initHTTPServer(log, cfg, sec.PublicKey, hdl)

	eBus, err := initEBus(log, &cfg.Kafka, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ebus: %w", err)
	}

	return &App{
		Cfg:        cfg,
		Log:        log,
		Handler:    hdl,
		Service:    svc,
		Security:   sec,
		DB:         db,
		RDB:        rdb,
		Hub:        hub,
		HTTPServer: httpServer,
		EBus:       eBus,
	}, nil
}

func MustNew(cfg *config.Config, log *zap.Logger) *App {
	app, err := New(cfg, log)
	if err != nil {
		panic(err)
	}
	return app
}

func (a *App) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	defer close(errs)

	go func() {
		if err := a.HTTPServer.Run(); err != nil {
			errs <- err
		}
	}()

	go func() {
		a.EBus.OutboxPublisher.Run(ctx)
	}()

	go func() {
		a.Hub.Run(ctx)
	}()

	if err := <-errs; err != nil {
		return err
	}

	return nil
}

func (a *App) Shutdown() error {
	a.DB.Close()
	a.Log.Debug("Database closed")

	err := apperrors.ErrShutdown

	if rdbErr := a.RDB.Close(); rdbErr != nil {
		err = fmt.Errorf("%w, failed to close RDB: %w", err, rdbErr)
	}

	a.Log.Debug("Redis closed")

	if srvErr := a.HTTPServer.Shutdown(); srvErr != nil {
		err = fmt.Errorf("%w, failed to shutdown http server: %w", err, srvErr)
	}

	a.Log.Debug("Http server shutdown")

	if !errors.Is(err, apperrors.ErrShutdown) {
		return err
	}

	return nil
}

func initDB(cfg *config.Database) (postgres.Postgres, error) {
	postgresCfg := &postgres.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Name,
		SSLMode:  cfg.SSLMode,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
		Migration: postgres.Migration{
			Path:      cfg.Migration.Path,
			AutoApply: cfg.Migration.AutoApply,
		},
	}

	db, err := postgres.New(postgresCfg)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func initRedis(cfg *config.Redis) (redis.Redis, error) {
	redisCfg := &redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	rdb, err := redis.New(redisCfg)
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func initSecurity(log *zap.Logger, cfg config.Key) (*Security, error) {
	publicKey, err := jwt.LoadECDSAPublicKey(cfg.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}

	log.Debug("Public key loaded")

	return &Security{
		PublicKey: publicKey,
	}, nil
}

func initRepository(ctx context.Context, log *zap.Logger, db postgres.Postgres, elasticCfg *config.Elastic) (*Repository, error) {
	messageRepo := repository.NewMessageRepository(db.Pool())
	log.Debug("Message repository initialized")

	outboxRepo := repository.NewOutboxRepository(db.Pool())
	log.Debug("Outbox repository initialized")

	healthRepo := repository.NewHealthRepository(db.Pool())
	log.Debug("Health repository initialized")

	repo := &Repository{
		MessageRepository: messageRepo,
		OutboxRepository:  outboxRepo,
		HealthRepository:  healthRepo,
	}

	// Search is optional, the service runs fine without an index.
	if elasticCfg.Enable {
		es, err := search.New(&search.Config{
			Addresses: elasticCfg.Addresses,
			Username:  elasticCfg.Username,
			Password:  elasticCfg.Password,
			CloudID:   elasticCfg.CloudID,
			APIKey:    elasticCfg.APIKey,
			Timeout:   elasticCfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init elasticsearch: %w", err)
		}

		searchRepo := repository.NewSearchRepository(es.Client())

		if err := searchRepo.EnsureIndex(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure message index: %w", err)
		}

		repo.SearchRepository = searchRepo
		log.Debug("Search repository initialized")
	}

	return repo, nil
}

func initService(log *zap.Logger, repo *Repository, rdb redis.Redis) *Service {
	notifier := notify.NewRedisNotifier(rdb.Client())
	log.Debug("Notifier initialized")

	// A nil SearchRepository field has to stay a nil interface inside the
	// service, hence the explicit branch.
	var searchRepo service.SearchRepository
	if repo.SearchRepository != nil {
		searchRepo = repo.SearchRepository
	}

	messageSvc := service.NewMessageService(log, repo.MessageRepository, repo.OutboxRepository, notifier, searchRepo)
	log.Debug("Message service initialized")

	healthSvc := service.NewHealthService(log, repo.HealthRepository)
	log.Debug("Health service initialized")

	return &Service{
		MessageService: messageSvc,
		HealthService:  healthSvc,
	}
}

func initHandler(log *zap.Logger, svc *Service, hub *notify.Hub) *Handler {
	messageHandler := handler.NewMessageHandler(log, svc.MessageService)
	log.Debug("Message handler initialized")

	healthHandler := handler.NewHealthHandler(log, svc.HealthService)
	log.Debug("Health handler initialized")

	wsHandler := handler.NewWSHandler(log, hub)
	log.Debug("WS handler initialized")

	return &Handler{
		MessageHandler: messageHandler,
		HealthHandler:  healthHandler,
		WSHandler:      wsHandler,
	}
}

func initHTTPServer(log *zap.Logger, cfg *config.Config, publicKey *ecdsa.PublicKey, hdl *Handler) server.HTTPServer {
	router := route.SetupRouter(
		log,
		cfg,
		publicKey,
		hdl.HealthHandler,
		hdl.MessageHandler,
		hdl.WSHandler,
	)

	httpServer := server.NewHTTPServer(
		server.WithAddr(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		server.WithTimeout(cfg.HTTPServer.Timeout.Read, cfg.HTTPServer.Timeout.Write, cfg.HTTPServer.Timeout.Idle),
		server.WithHandler(router),
	)

	return httpServer
}

func initEBus(log *zap.Logger, cfg *config.Kafka, repo *Repository) (*EBus, error) {
	producer, err := kafka.NewProducer(
		cfg.Brokers,
		kafka.WithBalancer(kafka.RoundRobin),
		kafka.WithRequiredAcks(kafka.RequireAll),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka producer: %w", err)
	}

	log.Debug("Kafka producer initialized")

	outboxCfg := outbox.Config{
		Name:         cfg.Producer.Name,
		WorkerCount:  cfg.Producer.WorkerCount,
		PollInterval: cfg.Producer.PollInterval,
		BatchSize:    cfg.Producer.BatchSize,
	}

	publisher := outbox.NewPublisher(
		log,
		outboxCfg,
		producer,
		repo.OutboxRepository,
	)

	log.Debug("Outbox publisher initialized")

	return &EBus{
		OutboxPublisher: publisher,
	}, nil
}
