package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"lottosettle/application/dto"
	"lottosettle/infrastructure"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Config holds script configuration
type Config struct {
	Command       dto.CommandType
	SubjectPrefix string
	NATSServers   string
	RequestID     int64
	Decision      string
	ActingID      int64
	GameType      string
	DrawID        int64
	Straight      string
	Secondary     string
	Edit          bool
	SettleWinners bool
	AccountID     int64
	SubType       string
	Numeral       string
	Stake         string
	DryRun        bool
	Verbose       bool
}

func main() {
	config := parseFlags()
	if config.Verbose {
		log.SetLevel(log.DebugLevel)
		log.WithField("config", fmt.Sprintf("%+v", *config)).Debug("Starting command publisher")
	}

	payload, err := buildPayload(config)
	if err != nil {
		log.Fatalf("Invalid command: %v", err)
	}

	commandID := uuid.NewString()
	data, err := dto.NewCommandEnvelope(commandID, config.Command, payload)
	if err != nil {
		log.Fatalf("Failed to encode command: %v", err)
	}
	subject := fmt.Sprintf("%s.%s", config.SubjectPrefix, config.Command)

	if config.DryRun {
		fmt.Printf("DRY RUN: %s %s\n", subject, data)
		return
	}

	ctx := context.Background()
	client := infrastructure.NewNATSClient(config.NATSServers)
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer client.Close()

	if err := client.EnsureCommandStream(config.SubjectPrefix + ".>"); err != nil {
		log.Fatalf("Failed to ensure command stream: %v", err)
	}
	if err := client.Publish(ctx, subject, data); err != nil {
		log.Fatalf("Failed to publish command: %v", err)
	}

	log.WithFields(log.Fields{
		"commandID": commandID,
		"subject":   subject,
	}).Info("Command published")
}

// parseFlags parses command-line flags and returns configuration
func parseFlags() *Config {
	config := &Config{}

	var command string
	flag.StringVar(&command, "command", "settle", "Command: settle, publish_draw, toggle_lock, place_wager")
	flag.StringVar(&config.SubjectPrefix, "subject", "lottery.commands", "Command subject prefix")
	flag.StringVar(&config.NATSServers, "nats", "nats://localhost:4222", "NATS server addresses")
	flag.Int64Var(&config.RequestID, "request", 0, "Financial request id (settle)")
	flag.StringVar(&config.Decision, "decision", "approve", "approve or decline (settle)")
	flag.Int64Var(&config.ActingID, "acting", 0, "Acting staff account id")
	flag.StringVar(&config.GameType, "game", "", "Game type whose settings apply (settle)")
	flag.Int64Var(&config.DrawID, "draw", 0, "Draw id (publish_draw, toggle_lock, place_wager)")
	flag.StringVar(&config.Straight, "straight", "", "Straight result digits (publish_draw)")
	flag.StringVar(&config.Secondary, "secondary", "", "Secondary result digits (publish_draw)")
	flag.BoolVar(&config.Edit, "edit", false, "Edit an already published result (publish_draw)")
	flag.BoolVar(&config.SettleWinners, "settle-winners", false, "Settle winning payouts after publishing (publish_draw)")
	flag.Int64Var(&config.AccountID, "account", 0, "Customer account id (place_wager)")
	flag.StringVar(&config.SubType, "sub-type", "", "Wager sub-type (place_wager)")
	flag.StringVar(&config.Numeral, "numeral", "", "Wagered digits (place_wager)")
	flag.StringVar(&config.Stake, "stake", "", "Stake amount (place_wager)")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Print the envelope without publishing")
	flag.BoolVar(&config.Verbose, "verbose", false, "Enable verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Publish settlement commands to NATS for testing.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  # Approve a recharge\n")
		fmt.Fprintf(os.Stderr, "  %s --command=settle --request=42 --decision=approve --acting=1\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Publish a draw and pay winners\n")
		fmt.Fprintf(os.Stderr, "  %s --command=publish_draw --draw=3 --straight=584213 --secondary=47 --acting=1 --settle-winners\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	config.Command = dto.CommandType(strings.ToLower(command))
	return config
}

func buildPayload(config *Config) (any, error) {
	switch config.Command {
	case dto.CommandSettle:
		if config.RequestID == 0 {
			return nil, fmt.Errorf("--request is required")
		}
		return dto.SettleCommand{
			RequestID:       config.RequestID,
			Decision:        config.Decision,
			ActingAccountID: config.ActingID,
			GameType:        config.GameType,
		}, nil
	case dto.CommandPublishDraw:
		if config.DrawID == 0 || config.Straight == "" || config.Secondary == "" {
			return nil, fmt.Errorf("--draw, --straight and --secondary are required")
		}
		return dto.PublishDrawCommand{
			DrawID:          config.DrawID,
			StraightResult:  config.Straight,
			SecondaryResult: config.Secondary,
			ActingAccountID: config.ActingID,
			Edit:            config.Edit,
			SettleWinners:   config.SettleWinners,
		}, nil
	case dto.CommandToggleLock:
		if config.DrawID == 0 {
			return nil, fmt.Errorf("--draw is required")
		}
		return dto.ToggleLockCommand{DrawID: config.DrawID, ActingAccountID: config.ActingID}, nil
	case dto.CommandPlaceWager:
		if config.AccountID == 0 || config.DrawID == 0 {
			return nil, fmt.Errorf("--account and --draw are required")
		}
		return dto.PlaceWagerCommand{
			AccountID: config.AccountID,
			DrawID:    config.DrawID,
			SubType:   config.SubType,
			Numeral:   config.Numeral,
			Stake:     config.Stake,
		}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", config.Command)
	}
}
