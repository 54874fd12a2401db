package main

// @title           StudySync Core API
// @version         1.0
// @description     Offline course sync service. StudySync Core mirrors selected LMS course content into a local cache for offline access.

// @contact.name   Campus Labs OSS
// @contact.url    https://github.com/campus-labs/studysync-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/campus-labs/studysync-core/docs"
	"github.com/campus-labs/studysync-core/internal/adapters/driven/auth"
	"github.com/campus-labs/studysync-core/internal/adapters/driven/canvas"
	"github.com/campus-labs/studysync-core/internal/adapters/driven/filecache"
	"github.com/campus-labs/studysync-core/internal/adapters/driven/htmlrewrite"
	"github.com/campus-labs/studysync-core/internal/adapters/driven/postgres"
	postgresqueue "github.com/campus-labs/studysync-core/internal/adapters/driven/queue/postgres"
	redisqueue "github.com/campus-labs/studysync-core/internal/adapters/driven/queue/redis"
	redisadapter "github.com/campus-labs/studysync-core/internal/adapters/driven/redis"
	"github.com/campus-labs/studysync-core/internal/adapters/driven/rollbar"
	httpserver "github.com/campus-labs/studysync-core/internal/adapters/driving/http"
	"github.com/campus-labs/studysync-core/internal/config"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
	"github.com/campus-labs/studysync-core/internal/core/services"
	"github.com/campus-labs/studysync-core/internal/worker"
)

var version = "dev"

func main() {
	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	cfg, err := config.Load(getEnv("STUDYSYNC_CONFIG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)
	logger.Info("studysync-core starting", "version", version, "mode", mode)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, stopping")
		cancel()
	}()

	// ===== Error reporting =====
	reporter := rollbar.NewReporter(rollbar.Config{
		Token:       cfg.Rollbar.Token,
		Environment: cfg.Rollbar.Environment,
		CodeVersion: version,
	})
	defer reporter.Wait()

	// ===== PostgreSQL =====
	logger.Info("connecting to PostgreSQL")
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleSec) * time.Second,
	})
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		fatal(logger, "failed to initialize schema", err)
	}
	logger.Info("PostgreSQL connected, schema initialized")

	// ===== Redis (optional) =====
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		logger.Info("connecting to Redis")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			fatal(logger, "failed to parse Redis URL", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			fatal(logger, "failed to connect to Redis", err)
		}
		defer redisClient.Close()
		logger.Info("Redis connected")
	}

	// ===== LMS API client =====
	lmsClient, err := canvas.NewClient(canvas.Config{
		BaseURL:     cfg.LMS.BaseURL,
		AccessToken: cfg.LMS.AccessToken,
		PageSize:    cfg.LMS.PageSize,
		MaxRetries:  cfg.LMS.MaxRetries,
	})
	if err != nil {
		fatal(logger, "failed to create LMS client", err)
	}
	courseAPI := canvas.NewCourseAPI(lmsClient)

	// ===== PostgreSQL stores =====
	courseStore := postgres.NewCourseStore(db)
	pageStore := postgres.NewPageStore(db)
	assignmentStore := postgres.NewAssignmentStore(db)
	quizStore := postgres.NewQuizStore(db)
	discussionStore := postgres.NewDiscussionStore(db)
	conferenceStore := postgres.NewConferenceStore(db)
	moduleStore := postgres.NewModuleStore(db)
	scheduleStore := postgres.NewScheduleStore(db)
	userStore := postgres.NewCourseUserStore(db)
	fileStore := postgres.NewFileStore(db)
	settingsStore := postgres.NewSyncSettingsStore(db)
	progressStore := postgres.NewSyncProgressStore(db)

	// ===== Task queue (Redis if available, otherwise PostgreSQL) =====
	var taskQueue driven.TaskQueue
	if redisClient != nil {
		taskQueue, err = redisqueue.NewQueue(redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			fatal(logger, "failed to create task queue", err)
		}
		logger.Info("using Redis task queue")
	} else {
		taskQueue = postgresqueue.NewQueue(db.DB)
		logger.Info("using PostgreSQL task queue")
	}
	defer taskQueue.Close()

	// ===== Distributed lock (Redis if available, otherwise advisory locks) =====
	var distributedLock driven.DistributedLock
	if redisClient != nil {
		distributedLock = redisadapter.NewLock(redisClient)
	} else {
		distributedLock = postgres.NewAdvisoryLock(db)
	}

	// ===== HTML rewriter and file cache =====
	rewriter, err := htmlrewrite.NewRewriter(htmlrewrite.Config{
		BaseURL:     cfg.LMS.BaseURL,
		LocalPrefix: cfg.Cache.LocalPrefix,
	})
	if err != nil {
		fatal(logger, "failed to create HTML rewriter", err)
	}

	fileSyncer, err := filecache.NewSyncer(filecache.SyncerConfig{
		Store:       fileStore,
		CacheDir:    cfg.Cache.Dir,
		AccessToken: cfg.LMS.AccessToken,
		Concurrency: cfg.Cache.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		fatal(logger, "failed to open file cache", err)
	}
	defer fileSyncer.Close()

	// ===== Auth =====
	authAdapter := auth.NewAdapter(cfg.Auth.JWTSecret)
	clients := make([]services.APIClient, 0, len(cfg.Auth.Clients))
	for _, c := range cfg.Auth.Clients {
		clients = append(clients, services.APIClient{ClientID: c.ClientID, KeyHash: c.KeyHash})
	}
	authService := services.NewAuth(services.AuthConfig{
		Adapter:  authAdapter,
		Clients:  clients,
		TokenTTL: cfg.Auth.TokenTTL(),
		Logger:   logger,
	})

	// ===== Core services =====
	syncAdmin := services.NewSyncAdmin(services.SyncAdminConfig{
		Settings: settingsStore,
		Progress: progressStore,
		Queue:    taskQueue,
		Logger:   logger,
	})

	orchestrator := services.NewSyncOrchestrator(services.SyncOrchestratorConfig{
		API:         courseAPI,
		Settings:    settingsStore,
		Progress:    progressStore,
		Courses:     courseStore,
		Pages:       pageStore,
		Assignments: assignmentStore,
		Quizzes:     quizStore,
		Discussions: discussionStore,
		Conferences: conferenceStore,
		Modules:     moduleStore,
		Schedule:    scheduleStore,
		Users:       userStore,
		Files:       fileStore,
		Rewriter:    rewriter,
		FileSync:    fileSyncer,
		Lock:        distributedLock,
		Reporter:    reporter,
		Logger:      logger,
	})

	var scheduler *services.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = services.NewScheduler(services.SchedulerConfig{
			Settings:     settingsStore,
			Queue:        taskQueue,
			Lock:         distributedLock,
			Logger:       logger,
			PollInterval: cfg.Scheduler.PollInterval(),
			LockRequired: cfg.Scheduler.LockRequired,
		})
		logger.Info("scheduler enabled", "poll_interval", cfg.Scheduler.PollInterval())
	} else {
		logger.Info("scheduler disabled")
	}

	switch mode {
	case "api":
		runAPI(cfg, logger, authService, syncAdmin, taskQueue, db, redisClient)

	case "worker":
		runWorkerMode(ctx, cfg, logger, taskQueue, orchestrator, scheduler)

	case "all":
		go runWorkerMode(ctx, cfg, logger, taskQueue, orchestrator, scheduler)
		runAPI(cfg, logger, authService, syncAdmin, taskQueue, db, redisClient)

	default:
		fatal(logger, "unknown mode (use: api, worker, or all)", fmt.Errorf("mode %q", mode))
	}
}

func runAPI(
	cfg *config.Config,
	logger *slog.Logger,
	authService *services.Auth,
	syncAdmin *services.SyncAdmin,
	taskQueue driven.TaskQueue,
	db *postgres.DB,
	redisClient *redis.Client,
) {
	serverCfg := httpserver.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Version:     version,
		AuthService: authService,
		SyncService: syncAdmin,
		TaskQueue:   taskQueue,
		DB:          db,
		Logger:      logger,
	}
	if redisClient != nil {
		serverCfg.Redis = redisPinger{redisClient}
	}

	server := httpserver.NewServer(serverCfg)
	logger.Info("API server starting", "port", cfg.Server.Port)
	if err := server.Start(); err != nil {
		fatal(logger, "server error", err)
	}
}

// runWorkerMode starts the worker and scheduler. It processes sync
// tasks from the queue and enqueues scheduled refreshes.
func runWorkerMode(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	taskQueue driven.TaskQueue,
	orchestrator *services.SyncOrchestrator,
	scheduler *services.Scheduler,
) {
	w := worker.NewWorker(worker.WorkerConfig{
		TaskQueue:      taskQueue,
		Orchestrator:   orchestrator,
		Scheduler:      scheduler,
		Logger:         logger,
		Concurrency:    cfg.Worker.Concurrency,
		DequeueTimeout: cfg.Worker.DequeueTimeoutSec,
	})

	if err := w.Start(ctx); err != nil {
		fatal(logger, "failed to start worker", err)
	}
	logger.Info("worker started", "concurrency", cfg.Worker.Concurrency)

	<-ctx.Done()

	logger.Info("stopping worker")
	w.Stop()
	logger.Info("worker stopped")
}

// redisPinger adapts the go-redis client to the server's health check.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
