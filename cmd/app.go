package cmd

import (
	"context"
	"fmt"

	"lottosettle/application"
	"lottosettle/config"
	"lottosettle/database"
	"lottosettle/domain/interfaces"
	"lottosettle/infrastructure"
	"lottosettle/infrastructure/observability"
	"lottosettle/repository"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// App holds the wired application handlers and the connections behind them
type App struct {
	DB         *database.DB
	UnitOfWork application.UnitOfWorkFactory
	Settlement application.SettlementHandler
	Draws      application.DrawHandler
	Wagers     application.WagerHandler
	Accounts   application.AccountHandler
	Settings   application.SettingsHandler
	Commands   application.CommandHandler
	NATS       *infrastructure.NATSClient // nil when NATS is disabled

	redis *redis.Client
}

// Build connects to the database and optional NATS and Redis, then wires the handlers
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	log.Info("Connecting to database...")
	db, err := database.NewConnectionWithOptions(ctx, cfg.GetDatabaseURL(), database.PoolOptions{
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connection established successfully")

	metrics := observability.GetMetrics()

	// Initialize event publisher
	var publisher interfaces.EventPublisher = infrastructure.NewNoopEventPublisher()
	if cfg.NATSEnabled {
		log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
		client := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := client.Connect(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		app.NATS = client

		natsPublisher := infrastructure.NewNATSEventPublisher(client, infrastructure.NewEventSubjectMapper(), metrics)
		if err := natsPublisher.EnsureEventStream(client); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to ensure event stream: %w", err)
		}
		if err := client.EnsureCommandStream(cfg.CommandSubject); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to ensure command stream: %w", err)
		}
		publisher = natsPublisher
		log.Info("NATS event publisher initialized successfully")
	} else {
		log.Warn("NATS disabled, domain events will be dropped")
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)
	application.RegisterApplicationSubscriptions(uowFactory)
	app.UnitOfWork = uowFactory

	// Settings snapshots read through Redis when it is reachable
	if cfg.RedisURL != "" {
		client, err := infrastructure.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, settings will be read from the database")
		} else {
			app.redis = client
		}
	}
	settingsCache := infrastructure.NewSettingsCache(app.redis, repository.NewSettingsRepository(db), cfg.SettingsCacheTTL, metrics)

	app.Settlement = application.NewSettlementHandler(uowFactory, settingsCache, metrics, cfg.DefaultGameType)
	app.Draws = application.NewDrawHandler(uowFactory, app.Settlement, metrics)
	app.Wagers = application.NewWagerHandler(uowFactory, settingsCache, metrics)
	app.Accounts = application.NewAccountHandler(uowFactory, settingsCache, metrics, cfg.DefaultGameType)
	app.Settings = application.NewSettingsHandler(uowFactory, settingsCache)
	app.Commands = application.NewCommandHandler(app.Settlement, app.Draws, app.Wagers)

	return app, nil
}

// Close releases every connection Build opened
func (a *App) Close() {
	if a.NATS != nil {
		if err := a.NATS.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis connection")
		}
	}
	if a.DB != nil {
		log.Info("Closing database connection...")
		a.DB.Close()
	}
}
