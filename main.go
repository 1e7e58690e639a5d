package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"lottosettle/application/dto"
	"lottosettle/cmd"
	"lottosettle/cmd/admin"
	"lottosettle/config"
	"lottosettle/database"
	"lottosettle/domain/entities"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Check if invoked as admin-shell (via symlink)
	if filepath.Base(os.Args[0]) == "admin-shell" {
		if err := runAdminShell(ctx); err != nil {
			log.Fatal("Admin shell error: ", err)
		}
		return
	}

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var err error
	switch command {
	case "run":
		err = cmd.Run(ctx)
	case "migrate":
		err = handleMigrationCommand()
	case "settle":
		err = withApp(ctx, handleSettleCommand)
	case "publish-draw":
		err = withApp(ctx, handlePublishDrawCommand)
	case "settings":
		err = withApp(ctx, handleSettingsCommand)
	case "shell":
		err = runAdminShell(ctx)
	default:
		err = fmt.Errorf("unknown command: %s (expected run, migrate, settle, publish-draw, settings or shell)", command)
	}
	if err != nil {
		log.Fatalf("%s error: %v", command, err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: lottosettle migrate [up|down|status] [args...]")
	}

	switch os.Args[2] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", os.Args[2])
	}
}

// withApp wires the handlers for a one-shot admin command
func withApp(ctx context.Context, fn func(context.Context, *cmd.App) error) error {
	cfg := config.Get()
	cmd.ConfigureLogging(cfg)

	app, err := cmd.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

func handleSettleCommand(ctx context.Context, app *cmd.App) error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: lottosettle settle <request_id> approve|decline <acting_account_id> [game_type]")
	}
	requestID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid request id %q: %w", os.Args[2], err)
	}
	decision, err := entities.ParseDecision(os.Args[3])
	if err != nil {
		return err
	}
	actingID, err := strconv.ParseInt(os.Args[4], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid acting account id %q: %w", os.Args[4], err)
	}
	gameType := ""
	if len(os.Args) > 5 {
		gameType = os.Args[5]
	}

	result, err := app.Settlement.Settle(ctx, dto.SettleRequestDTO{
		RequestID:       requestID,
		Decision:        decision,
		ActingAccountID: actingID,
		GameType:        gameType,
	})
	if err != nil {
		return err
	}

	fields := log.Fields{
		"requestID": requestID,
		"status":    result.Request.Status,
		"credited":  result.Credited.String(),
		"debited":   result.Debited.String(),
	}
	if result.BalanceAfter != nil {
		fields["balanceAfter"] = result.BalanceAfter.String()
	}
	log.WithFields(fields).Info("Request settled")
	return nil
}

func handlePublishDrawCommand(ctx context.Context, app *cmd.App) error {
	if len(os.Args) < 6 {
		return fmt.Errorf("usage: lottosettle publish-draw <draw_id> <straight> <secondary> <acting_account_id> [edit] [settle]")
	}
	drawID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid draw id %q: %w", os.Args[2], err)
	}
	actingID, err := strconv.ParseInt(os.Args[5], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid acting account id %q: %w", os.Args[5], err)
	}

	req := dto.PublishDrawDTO{
		DrawID:          drawID,
		StraightResult:  os.Args[3],
		SecondaryResult: os.Args[4],
		ActingAccountID: actingID,
	}
	for _, flag := range os.Args[6:] {
		switch flag {
		case "edit":
			req.Edit = true
		case "settle":
			req.SettleWinners = true
		default:
			return fmt.Errorf("unknown flag: %s", flag)
		}
	}

	result, err := app.Draws.PublishDraw(ctx, req)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"drawID":  drawID,
		"winners": len(result.Resolution.Winners),
		"losers":  len(result.Resolution.Losers),
		"settled": len(result.Settled),
		"failed":  len(result.Failed),
	}).Info("Draw published")
	for requestID, failure := range result.Failed {
		log.WithError(failure).WithField("requestID", requestID).Warn("Payout left pending")
	}
	return nil
}

// handleSettingsCommand loads a game's settings, rates and bonus rules from a JSON file
func handleSettingsCommand(ctx context.Context, app *cmd.App) error {
	if len(os.Args) < 4 || os.Args[2] != "load" {
		return fmt.Errorf("usage: lottosettle settings load <file.json>")
	}

	data, err := os.ReadFile(os.Args[3])
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	var settings entities.GameSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}

	if err := app.Settings.UpdateGameSettings(ctx, &settings); err != nil {
		return err
	}
	for subType, rate := range settings.Rates {
		rate.SubType = subType
		if err := app.Settings.UpsertRate(ctx, settings.GameType, rate); err != nil {
			return err
		}
	}
	if err := app.Settings.ReplaceBonusRules(ctx, settings.GameType, settings.BonusRules); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"gameType":   settings.GameType,
		"rates":      len(settings.Rates),
		"bonusRules": len(settings.BonusRules),
	}).Info("Game settings loaded")
	return nil
}

// runAdminShell starts the interactive staff console against the database
func runAdminShell(ctx context.Context) error {
	cfg := config.Get()
	cmd.ConfigureLogging(cfg)

	// Events from the console still reach NATS when it is enabled
	app, err := cmd.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	shell := admin.NewShell(admin.Handlers{
		UnitOfWork: app.UnitOfWork,
		Settlement: app.Settlement,
		Draws:      app.Draws,
		Accounts:   app.Accounts,
	}, os.Stdin, os.Stdout)
	return shell.Run(ctx)
}
