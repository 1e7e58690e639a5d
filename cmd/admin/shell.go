package admin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"lottosettle/application"

	log "github.com/sirupsen/logrus"
)

// Handlers are the use cases the shell drives
type Handlers struct {
	UnitOfWork application.UnitOfWorkFactory
	Settlement application.SettlementHandler
	Draws      application.DrawHandler
	Accounts   application.AccountHandler
}

// Shell is an interactive staff console over the settlement engine
type Shell struct {
	handlers Handlers
	commands map[string]Command
	history  []string
	actingID int64  // staff account recorded as the actor on every decision
	gameType string // settings snapshot used for settlements
	dryRun   bool
	running  bool
	in       *bufio.Scanner
	out      io.Writer
}

// Command represents a shell command
type Command struct {
	Handler     CommandHandler
	Description string
	Usage       string
	Category    string // "read", "admin", "utility"
}

// CommandHandler is a function that handles a shell command
type CommandHandler func(ctx context.Context, args []string) error

// NewShell creates a new admin shell reading commands from in
func NewShell(handlers Handlers, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		handlers: handlers,
		history:  []string{},
		running:  true,
		in:       bufio.NewScanner(in),
		out:      out,
	}
	s.initializeCommands()
	return s
}

// Run starts the interactive shell
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Lottery settlement admin shell")
	fmt.Fprintln(s.out, "Run 'as <account_id>' to choose the acting staff account, 'help' for commands.")

	for s.running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(s.out, s.prompt())

		if !s.in.Scan() {
			break
		}

		input := strings.TrimSpace(s.in.Text())
		if input == "" {
			continue
		}

		s.history = append(s.history, input)

		parts := strings.Fields(input)
		cmdName := parts[0]
		args := parts[1:]

		// Built-ins
		switch cmdName {
		case "exit", "quit":
			s.running = false
			fmt.Fprintln(s.out, "Exiting admin shell.")
			continue
		case "dry-run":
			if err := s.handleDryRun(args); err != nil {
				s.printError(err)
			}
			continue
		}

		cmd, exists := s.commands[cmdName]
		if !exists {
			s.printError(fmt.Errorf("unknown command: %s. Type 'help' for available commands", cmdName))
			continue
		}

		if err := cmd.Handler(ctx, args); err != nil {
			s.printError(err)
		}
	}

	if err := s.in.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func (s *Shell) prompt() string {
	var tags []string
	if s.actingID != 0 {
		tags = append(tags, fmt.Sprintf("as:%d", s.actingID))
	}
	if s.gameType != "" {
		tags = append(tags, s.gameType)
	}
	if s.dryRun {
		tags = append(tags, "dry-run")
	}
	if len(tags) == 0 {
		return "\nlotto> "
	}
	return fmt.Sprintf("\nlotto [%s]> ", strings.Join(tags, " "))
}

// printError displays an error message in red
func (s *Shell) printError(err error) {
	fmt.Fprintln(s.out, colorText("Error: "+err.Error(), "red"))
}

// printSuccess displays a success message in green
func (s *Shell) printSuccess(msg string) {
	fmt.Fprintln(s.out, colorText(msg, "green"))
}

// printWarning displays a warning message in yellow
func (s *Shell) printWarning(msg string) {
	fmt.Fprintln(s.out, colorText(msg, "yellow"))
}

// printInfo displays an info message in blue
func (s *Shell) printInfo(msg string) {
	fmt.Fprintln(s.out, colorText(msg, "blue"))
}

// confirmAction prompts the user for confirmation
func (s *Shell) confirmAction(prompt string) bool {
	if s.dryRun {
		s.printInfo("Dry-run mode: would execute action")
		return false
	}

	fmt.Fprintf(s.out, "\n%s ", colorText(prompt+" [y/N]:", "yellow"))
	if !s.in.Scan() {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return response == "y" || response == "yes"
}

// handleDryRun toggles dry-run mode
func (s *Shell) handleDryRun(args []string) error {
	if len(args) == 0 {
		status := "off"
		if s.dryRun {
			status = "on"
		}
		s.printInfo(fmt.Sprintf("Dry-run mode is currently: %s", status))
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		s.dryRun = true
		s.printWarning("Dry-run mode enabled - no changes will be made")
	case "off", "false", "0":
		s.dryRun = false
		s.printSuccess("Dry-run mode disabled")
	default:
		return fmt.Errorf("invalid dry-run value. Use 'on' or 'off'")
	}
	return nil
}

// requireActing fails until an acting account is chosen
func (s *Shell) requireActing() error {
	if s.actingID == 0 {
		return fmt.Errorf("no acting account - run 'as <account_id>' first")
	}
	return nil
}

// logAdminAction logs admin actions for audit purposes
func (s *Shell) logAdminAction(action string, details log.Fields) {
	fields := log.Fields{
		"action":    action,
		"actingID":  s.actingID,
		"timestamp": time.Now().Unix(),
		"source":    "admin_shell",
	}
	for k, v := range details {
		fields[k] = v
	}
	log.WithFields(fields).Info("Admin action executed via admin shell")
}
