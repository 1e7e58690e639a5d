package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"lottosettle/config"
	"lottosettle/infrastructure"
	"lottosettle/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured level; production logs are JSON
func ConfigureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.WithField("logLevel", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// Run initializes and starts the settlement service
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting lottery settlement engine...")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	// Inbound commands only arrive over NATS
	var subscriber *infrastructure.NATSCommandSubscriber
	if app.NATS != nil {
		subscriber = infrastructure.NewNATSCommandSubscriber(app.NATS, app.Commands, observability.GetMetrics())
		if err := subscriber.Start(cfg.CommandSubject); err != nil {
			return fmt.Errorf("failed to start command subscriber: %w", err)
		}
	}

	log.Info("Settlement engine is running")
	<-ctx.Done()

	log.Info("Shutting down settlement engine...")
	if subscriber != nil {
		subscriber.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}
