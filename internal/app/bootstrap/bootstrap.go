package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	voteplugin "votekit/contexts/content-engagement/vote-plugin"
	datastoreadapter "votekit/contexts/content-engagement/vote-plugin/adapters/datastore"
	voteevents "votekit/contexts/content-engagement/vote-plugin/adapters/events"
	"votekit/contexts/content-engagement/vote-plugin/adapters/memory"
	postgresadapter "votekit/contexts/content-engagement/vote-plugin/adapters/postgres"
	"votekit/contexts/content-engagement/vote-plugin/application/commands"
	"votekit/contexts/content-engagement/vote-plugin/domain/valueobjects"
	"votekit/contexts/content-engagement/vote-plugin/ports"
	"votekit/internal/platform/config"
	"votekit/internal/platform/db"
	"votekit/internal/platform/httpserver"
	"votekit/internal/platform/messaging"
	"votekit/internal/platform/odm"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	audit    voteevents.AuditConsumer
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Build(cfg)
}

// Build wires the API from an already loaded config.
func Build(cfg config.Config) (*APIApp, error) {
	level := slog.LevelInfo
	if cfg.LogDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", cfg.ServiceName, "process", "api")

	schema := odm.NewSchema(cfg.VotesSchema, nil)
	plugin, err := voteplugin.Apply(schema, pluginOptions(cfg), logger)
	if err != nil {
		return nil, err
	}

	app := &APIApp{logger: logger}
	var (
		documents ports.DocumentRepository
		clock     ports.Clock
		ids       ports.IDGenerator
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pg, err := db.Connect(cfg.PostgresDSN, db.Options{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			Logger:          logger,
		})
		if err != nil {
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, schema, plugin.VoteField(), logger)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		app.postgres = pg
		documents, clock, ids = repo, postgresadapter.SystemClock{}, postgresadapter.UUIDGenerator{}
	case config.BackendDatastore:
		ds := dssync.MutexWrap(datastore.NewMapDatastore())
		store := datastoreadapter.NewStore(ds, schema, plugin.VoteField())
		documents, clock, ids = store, store, store
	default:
		store := memory.NewStore(schema, plugin.VoteField(), nil)
		documents, clock, ids = store, store, store
	}

	bus := messaging.NewBus(cfg.EventBuffer, logger)
	module := voteplugin.NewModule(voteplugin.Dependencies{
		Plugin:    plugin,
		Documents: documents,
		Events:    voteevents.NewPublisher(bus, logger),
		Clock:     clock,
		IDGen:     ids,
		Logger:    logger,
	})

	app.server = httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	app.audit = voteevents.AuditConsumer{
		Subscriber: bus,
		Topics:     []string{commands.EventTypeDocumentVoted, commands.EventTypeDocumentUnvoted},
		Logger:     logger,
	}
	logger.Info("api app built",
		"event", "bootstrap_api_built",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"schema", cfg.VotesSchema,
		"path", plugin.Path(),
		"field", plugin.Field().String(),
		"store_backend", cfg.StoreBackend,
	)
	return app, nil
}

func pluginOptions(cfg config.Config) valueobjects.Options {
	options := valueobjects.Options{
		Path:             cfg.VotesPath,
		VoteMethodName:   cfg.VoteMethodName,
		UnvoteMethodName: cfg.UnvoteMethodName,
		Votes:            valueobjects.VoteOptions{Ref: cfg.VotesRef},
	}
	if !cfg.VotesSelect {
		options.Options = valueobjects.FieldOptions{"select": false}
	}
	return options
}

// Run serves until ctx is cancelled or the server fails.
func (a *APIApp) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	if err := a.audit.Start(ctx); err != nil {
		return err
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
