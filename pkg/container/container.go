package container

import (
	"context"
	"fmt"
	"time"

	"bookstore-graphql/internal/config"
	"bookstore-graphql/internal/graph"
	"bookstore-graphql/internal/graph/gqlerr"
	"bookstore-graphql/internal/graph/handler"
	"bookstore-graphql/internal/graph/loaders"
	"bookstore-graphql/internal/infrastructure/database"
	"bookstore-graphql/internal/infrastructure/metrics"
	pkgdb "bookstore-graphql/pkg/database"
	"bookstore-graphql/pkg/logger"

	authorRepo "bookstore-graphql/internal/domains/author/repository"
	authorService "bookstore-graphql/internal/domains/author/service"
	bookRepo "bookstore-graphql/internal/domains/book/repository"
	bookService "bookstore-graphql/internal/domains/book/service"

	"github.com/rs/zerolog/log"
)

const poolMonitorInterval = 30 * time.Second

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process.
// Fields are populated in dependency order by NewContainer.
type Container struct {
	// Infrastructure
	Config    *config.Config
	DB        *database.PostgresDB
	TxManager pkgdb.TxManager
	Metrics   *metrics.Metrics

	// Repositories
	AuthorRepo authorRepo.RepositoryInterface
	BookRepo   bookRepo.RepositoryInterface

	// Services
	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface

	// GraphQL
	GraphQLHandler *handler.Handler
	LoaderConfig   loaders.Config

	stopMonitor context.CancelFunc
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph:
// config -> database (+ migrations) -> repositories -> services -> GraphQL.
// Any failure aborts startup, including a schema whose handlers do not
// match the SDL.
func NewContainer() (*Container, error) {
	c := &Container{}

	// STEP 1: configuration and logging
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.Log.Level)

	log.Info().
		Str("app", cfg.App.Name).
		Str("environment", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("initializing container")

	// STEP 2: database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	// STEP 3: migrations
	if cfg.Migrations.OnStart {
		if err := c.migrate(ctx); err != nil {
			c.Cleanup()
			return nil, err
		}
	}

	// STEP 4: repositories, services, GraphQL
	c.initRepositories()
	c.initServices()
	if err := c.initGraphQL(); err != nil {
		c.Cleanup()
		return nil, err
	}

	monitorCtx, stop := context.WithCancel(context.Background())
	c.stopMonitor = stop
	go db.MonitorPoolHealth(monitorCtx, poolMonitorInterval)

	log.Info().Msg("container initialized")
	return c, nil
}

func (c *Container) migrate(ctx context.Context) error {
	migrator := database.NewMigrator(c.DB.Pool, database.MigrateOptions{
		BaselineOnMigrate: c.Config.Migrations.BaselineOnMigrate,
		BaselineVersion:   c.Config.Migrations.BaselineVersion,
	})

	applied, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("migrations complete", map[string]interface{}{"applied": applied})
	return nil
}

func (c *Container) initRepositories() {
	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool)
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
	logger.Debug("repositories initialized")
}

func (c *Container) initServices() {
	c.TxManager = pkgdb.NewTxManager(c.DB.Pool)
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.TxManager)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo, c.TxManager)
}

func (c *Container) initGraphQL() error {
	c.Metrics = metrics.New()
	mapper := gqlerr.NewMapper()

	schema, err := graph.NewSchema(c.AuthorService, c.BookService, mapper)
	if err != nil {
		return fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	c.GraphQLHandler = handler.New(schema, mapper, c.Metrics)
	c.LoaderConfig = loaders.Config{
		Wait:               c.Config.GraphQL.BatchWait,
		BatchCapacity:      c.Config.GraphQL.BatchCapacity,
		SlowBatchThreshold: c.Config.GraphQL.SlowBatchThreshold,
	}
	return nil
}

// Cleanup releases resources; called on shutdown and on failed startup
func (c *Container) Cleanup() {
	if c.stopMonitor != nil {
		c.stopMonitor()
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}
	log.Info().Msg("container cleanup completed")
}
