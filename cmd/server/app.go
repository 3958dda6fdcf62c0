package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/config"
	"github.com/draftsmith/draftsmith-api/internal/events"
	"github.com/draftsmith/draftsmith-api/internal/imaging"
	"github.com/draftsmith/draftsmith-api/internal/platform/openai"
	"github.com/draftsmith/draftsmith-api/internal/platform/postgres"
	"github.com/draftsmith/draftsmith-api/internal/service"
	"github.com/draftsmith/draftsmith-api/internal/service/auth"
	"github.com/draftsmith/draftsmith-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	articleStore *postgres.PostgresArticleStore
	taskStore    *postgres.PostgresTaskStore

	jwtService     auth.JWTService
	authenticator  *auth.AdminAuthenticator
	articleService service.ArticleService

	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application initialization: configuration, logger, and the database
// connection (already migrated).
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.authenticator = auth.NewAdminAuthenticator(
		cfg.Auth,
		app.jwtService,
		auth.NewBcryptVerifier(),
		logger,
	)

	app.articleStore = postgres.NewPostgresArticleStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	generator, err := openai.NewArticleGenerator(
		logger.With("component", "article_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize article generator: %w", err)
	}
	logger.Info("Article generator initialized", "model", cfg.LLM.ModelName)

	imageProvider, err := openai.NewImageProvider(cfg.Image, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image provider: %w", err)
	}

	imageClient, err := imaging.NewClient(imageProvider, cfg.Image, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image client: %w", err)
	}
	logger.Info("Image acquisition client initialized",
		"model", cfg.Image.ModelName,
		"max_attempts", cfg.Image.MaxAttempts)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	articleRepoAdapter := service.NewArticleRepositoryAdapter(app.articleStore, db)
	app.articleService, err = service.NewArticleService(
		articleRepoAdapter,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create article service: %w", err)
	}

	taskFactory := task.NewArticleGenerationTaskFactory(
		app.articleService,
		generator,
		imageClient,
		cfg.Image,
		logger,
	)

	// Tasks loaded from the database during crash recovery carry only their
	// type and payload; the hydrator rebuilds the execution closure so the
	// runner can requeue them.
	app.taskStore.SetHydrator(articleTaskHydrator(taskFactory))

	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter)
	if !ok {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register task handler")
	}
	emitter.RegisterHandler(task.NewTaskFactoryEventHandler(taskFactory, app.taskRunner, logger))

	logger.Info("Application initialized successfully")
	return app, nil
}

// articleTaskHydrator returns a postgres.TaskHydrator that reconstructs
// article generation work from a persisted task payload.
func articleTaskHydrator(factory *task.ArticleGenerationTaskFactory) postgres.TaskHydrator {
	return func(taskType string, payload []byte) (func(ctx context.Context) error, error) {
		if taskType != task.TaskTypeArticleGeneration {
			return nil, fmt.Errorf("unknown task type %q", taskType)
		}

		var data struct {
			ArticleID uuid.UUID `json:"article_id"`
		}
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
		}

		t, err := factory.CreateTask(data.ArticleID)
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild task: %w", err)
		}
		return t.Execute, nil
	}
}

// setupTaskRunner initializes and starts the background task processor.
// Starting the runner also recovers any tasks left unfinished by a
// previous run, so the hydrator must already be installed.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	runnerCfg := task.DefaultTaskRunnerConfig()
	if app.config.Task.WorkerCount > 0 {
		runnerCfg.WorkerCount = app.config.Task.WorkerCount
	}
	if app.config.Task.QueueSize > 0 {
		runnerCfg.QueueSize = app.config.Task.QueueSize
	}

	taskRunner := task.NewTaskRunner(app.taskStore, runnerCfg, app.logger)
	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	closeDatabase(app.db, app.logger)

	app.logger.Info("Application shutdown completed")
}
