// Package control wires the application together and manages its lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	bootretry "github.com/sethvargo/go-retry"

	"github.com/vietddude/storyforge/internal/connectivity"
	"github.com/vietddude/storyforge/internal/core/config"
	"github.com/vietddude/storyforge/internal/infra/llm"
	redisclient "github.com/vietddude/storyforge/internal/infra/redis"
	"github.com/vietddude/storyforge/internal/infra/storage"
	"github.com/vietddude/storyforge/internal/infra/storage/memory"
	"github.com/vietddude/storyforge/internal/infra/storage/postgres"
	"github.com/vietddude/storyforge/internal/resilience/queue"
	"github.com/vietddude/storyforge/internal/status"
	"github.com/vietddude/storyforge/internal/story"
)

// App is the main application struct that owns all components.
type App struct {
	cfg     *config.AppConfig
	svc     *story.Service
	queue   *queue.Manager
	monitor *connectivity.Monitor
	server  *status.Server
	db      *postgres.DB
	redis   *redisclient.Client
	log     *slog.Logger
}

// NewApp creates an App with all dependencies initialized.
func NewApp(cfg *config.AppConfig, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// 1. Storage
	var projects storage.ProjectRepository
	var chapters storage.ChapterRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = connectDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		projects = postgres.NewProjectRepo(db)
		chapters = postgres.NewChapterRepo(db)
		log.Info("using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		projects = memory.NewProjectRepo(store)
		chapters = memory.NewChapterRepo(store)
		log.Info("using memory storage")
	}

	// 2. Queue snapshot store. Redis failure degrades to in-process
	// persistence rather than refusing to start.
	var snapStore queue.SnapshotStore = queue.NewMemoryStore()
	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("failed to connect to Redis, queue snapshots kept in memory", "error", err)
		} else {
			snapStore = redisclient.NewSnapshotStore(redisClient)
			log.Info("queue snapshots stored in Redis")
		}
	}

	// 3. Connectivity and queue
	monitor := connectivity.NewMonitor(cfg.Connectivity, log)

	q := queue.NewManager(queue.Config{
		Policy: cfg.Retry.Policy(),
		Store:  snapStore,
		Online: monitor.Online(),
		Logger: log,
		Callbacks: queue.Callbacks{
			OnItemFailed: func(item queue.Snapshot, err error) {
				log.Error("queued operation failed permanently",
					"id", item.ID, "retries", item.RetryCount, "error", err)
			},
		},
	})
	monitor.Subscribe(q.SetOnline)

	// 4. Generation provider and service
	provider, err := llm.New(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to init provider: %w", err)
	}
	log.Info("generation provider ready", "provider", provider.Name(), "model", cfg.AI.Model)

	svc := story.NewService(projects, chapters, provider, q, log)

	server := status.NewServer(svc, q, monitor, cfg.Server.Port)

	return &App{
		cfg:     cfg,
		svc:     svc,
		queue:   q,
		monitor: monitor,
		server:  server,
		db:      db,
		redis:   redisClient,
		log:     log,
	}, nil
}

// connectDB dials PostgreSQL with a short fibonacci retry so a slow-starting
// database container does not kill the process.
func connectDB(ctx context.Context, cfg postgres.Config) (*postgres.DB, error) {
	var db *postgres.DB
	backoff := bootretry.WithMaxRetries(5, bootretry.NewFibonacci(time.Second))
	err := bootretry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		db, err = postgres.NewDB(ctx, cfg)
		if err != nil {
			return bootretry.RetryableError(err)
		}
		return nil
	})
	return db, err
}

// Service returns the story service, for embedding callers.
func (a *App) Service() *story.Service {
	return a.svc
}

// Queue returns the offline queue manager.
func (a *App) Queue() *queue.Manager {
	return a.queue
}

// Start starts the HTTP server and the connectivity monitor.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Error("status server failed", "error", err)
		}
	}()

	go a.monitor.Start(ctx)

	a.log.Info("started", "port", a.cfg.Server.Port, "online", a.monitor.Online())
	return nil
}

// Stop shuts everything down in dependency order.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("stopping...")

	if err := a.server.Stop(ctx); err != nil {
		a.log.Warn("failed to stop status server", "error", err)
	}

	a.queue.Close()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close Redis", "error", err)
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("failed to close database", "error", err)
		}
	}

	a.log.Info("stopped")
	return nil
}
