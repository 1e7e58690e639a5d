package admin

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"lottosettle/application/dto"
	"lottosettle/domain/entities"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// initializeCommands sets up all available shell commands
func (s *Shell) initializeCommands() {
	s.commands = map[string]Command{
		"help": {
			Handler:     s.handleHelp,
			Description: "Show available commands",
			Usage:       "help [command]",
			Category:    "utility",
		},
		"as": {
			Handler:     s.handleAs,
			Description: "Choose the staff account recorded on decisions",
			Usage:       "as <account_id>",
			Category:    "utility",
		},
		"game": {
			Handler:     s.handleGame,
			Description: "Choose the game whose settings apply to settlements",
			Usage:       "game <game_type>",
			Category:    "utility",
		},
		"pending": {
			Handler:     s.handlePending,
			Description: "List pending financial requests, oldest first",
			Usage:       "pending [recharge|withdrawal|wager_settlement|bonus] [limit]",
			Category:    "read",
		},
		"balance": {
			Handler:     s.handleBalance,
			Description: "Show an account's available amount",
			Usage:       "balance <account_id>",
			Category:    "read",
		},
		"history": {
			Handler:     s.handleHistory,
			Description: "Show an account's ledger, newest first",
			Usage:       "history <account_id> [limit] [offset]",
			Category:    "read",
		},
		"entries": {
			Handler:     s.handleEntries,
			Description: "Show the ledger entries of a financial request",
			Usage:       "entries <request_id>",
			Category:    "read",
		},
		"settle": {
			Handler:     s.handleSettle,
			Description: "Approve or decline a financial request",
			Usage:       "settle <request_id> approve|decline",
			Category:    "admin",
		},
		"publish": {
			Handler:     s.handlePublish,
			Description: "Publish a draw result and resolve its wagers",
			Usage:       "publish <draw_id> <straight> <secondary> [edit] [settle]",
			Category:    "admin",
		},
		"lock": {
			Handler:     s.handleLock,
			Description: "Toggle a draw's lock flag",
			Usage:       "lock <draw_id>",
			Category:    "admin",
		},
	}
}

// handleHelp displays help information
func (s *Shell) handleHelp(_ context.Context, args []string) error {
	if len(args) > 0 {
		cmd, exists := s.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(s.out, "\n%s\n", args[0])
		fmt.Fprintf(s.out, "   %s\n", cmd.Description)
		fmt.Fprintf(s.out, "   Usage: %s\n", cmd.Usage)
		fmt.Fprintf(s.out, "   Category: %s\n", cmd.Category)
		return nil
	}

	names := lo.Keys(s.commands)
	sort.Strings(names)

	fmt.Fprintln(s.out, "\nAvailable Commands:")
	for _, category := range []string{"admin", "read", "utility"} {
		fmt.Fprintf(s.out, "\n%s:\n", colorText(category, "yellow"))
		for _, name := range names {
			if cmd := s.commands[name]; cmd.Category == category {
				fmt.Fprintf(s.out, "  %-10s %s\n", name, cmd.Description)
			}
		}
	}
	fmt.Fprintf(s.out, "  %-10s %s\n", "dry-run", "Toggle dry-run mode")
	fmt.Fprintf(s.out, "  %-10s %s\n", "exit", "Exit the shell")
	fmt.Fprintln(s.out, "\nType 'help <command>' for detailed usage")
	return nil
}

// handleAs sets the acting staff account
func (s *Shell) handleAs(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: as <account_id>")
	}
	accountID, err := parseID("account id", args[0])
	if err != nil {
		return err
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsCustomer() {
		return fmt.Errorf("account %d (%s) is a customer and cannot decide requests", account.ID, account.Username)
	}

	s.actingID = account.ID
	s.printSuccess(fmt.Sprintf("Acting as %s (%s)", account.Username, account.Role))
	return nil
}

// handleGame sets the game type used for settlement settings
func (s *Shell) handleGame(_ context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: game <game_type>")
	}
	s.gameType = args[0]
	s.printSuccess(fmt.Sprintf("Game context set to: %s", s.gameType))
	return nil
}

// handlePending lists pending requests of one kind, or of every kind
func (s *Shell) handlePending(ctx context.Context, args []string) error {
	kinds := []entities.RequestKind{
		entities.RequestKindRecharge,
		entities.RequestKindWithdrawal,
		entities.RequestKindWagerSettlement,
		entities.RequestKindBonus,
	}
	if len(args) > 0 {
		kind := entities.RequestKind(args[0])
		if !lo.Contains(kinds, kind) {
			return fmt.Errorf("unknown request kind: %s", args[0])
		}
		kinds = []entities.RequestKind{kind}
	}
	limit, err := optionalInt(args, 1, 20)
	if err != nil {
		return err
	}

	uow := s.handlers.UnitOfWork.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var rows [][]string
	for _, kind := range kinds {
		requests, err := uow.FinancialRequestRepository().ListPending(ctx, kind, limit)
		if err != nil {
			return fmt.Errorf("failed to list pending %s requests: %w", kind, err)
		}
		for _, r := range requests {
			rows = append(rows, []string{
				strconv.FormatInt(r.ID, 10),
				string(r.Kind),
				strconv.FormatInt(r.AccountID, 10),
				formatMoney(r.Amount),
				formatMoney(r.Fee),
				truncateString(r.Method, 24),
				r.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
	}

	if len(rows) == 0 {
		s.printInfo("No pending requests")
		return nil
	}
	fmt.Fprintln(s.out, formatTable([]string{"ID", "Kind", "Account", "Amount", "Fee", "Method", "Created"}, rows))
	return nil
}

// handleBalance shows an account's available amount
func (s *Shell) handleBalance(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: balance <account_id>")
	}
	accountID, err := parseID("account id", args[0])
	if err != nil {
		return err
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	special := ""
	if account.SpecialRate {
		special = " (special rate)"
	}
	fmt.Fprintf(s.out, "%s [%s]%s: %s\n", account.Username, account.Role, special, formatMoney(account.AvailableAmount))
	return nil
}

// handleHistory pages an account's ledger
func (s *Shell) handleHistory(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: history <account_id> [limit] [offset]")
	}
	accountID, err := parseID("account id", args[0])
	if err != nil {
		return err
	}
	limit, err := optionalInt(args, 1, 20)
	if err != nil {
		return err
	}
	offset, err := optionalInt(args, 2, 0)
	if err != nil {
		return err
	}

	entries, err := s.handlers.Accounts.History(ctx, dto.HistoryDTO{AccountID: accountID, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	s.printEntries(entries)
	return nil
}

// handleEntries shows the entries written for a request
func (s *Shell) handleEntries(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: entries <request_id>")
	}
	requestID, err := parseID("request id", args[0])
	if err != nil {
		return err
	}

	entries, err := s.handlers.Accounts.RequestEntries(ctx, requestID)
	if err != nil {
		return err
	}
	s.printEntries(entries)
	return nil
}

func (s *Shell) printEntries(entries []*entities.LedgerEntry) {
	if len(entries) == 0 {
		s.printInfo("No ledger entries")
		return
	}

	rows := lo.Map(entries, func(e *entities.LedgerEntry, _ int) []string {
		balance := ""
		if e.BalanceAfter != nil {
			balance = formatMoney(*e.BalanceAfter)
		}
		return []string{
			strconv.FormatInt(e.ID, 10),
			string(e.Category),
			e.Collection,
			e.Delta,
			balance,
			strconv.FormatInt(e.ByAccountID, 10),
			truncateString(e.Description, 32),
			e.CreatedAt.Format("2006-01-02 15:04"),
		}
	})
	fmt.Fprintln(s.out, formatTable([]string{"ID", "Category", "Collection", "Delta", "Balance", "By", "Description", "At"}, rows))
}

// handleSettle approves or declines a request
func (s *Shell) handleSettle(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: settle <request_id> approve|decline")
	}
	if err := s.requireActing(); err != nil {
		return err
	}
	requestID, err := parseID("request id", args[0])
	if err != nil {
		return err
	}
	decision, err := entities.ParseDecision(args[1])
	if err != nil {
		return err
	}

	if !s.confirmAction(fmt.Sprintf("Settle request %d as %s?", requestID, decision)) {
		s.printInfo("Cancelled")
		return nil
	}

	result, err := s.handlers.Settlement.Settle(ctx, dto.SettleRequestDTO{
		RequestID:       requestID,
		Decision:        decision,
		ActingAccountID: s.actingID,
		GameType:        s.gameType,
	})
	if err != nil {
		return err
	}

	s.logAdminAction("settle", log.Fields{
		"requestID": requestID,
		"decision":  decision,
	})

	msg := fmt.Sprintf("Request %d %s", requestID, result.Request.Status)
	if result.BalanceAfter != nil {
		msg += fmt.Sprintf(", balance now %s", formatMoney(*result.BalanceAfter))
	}
	if result.Bonus != nil {
		msg += fmt.Sprintf(" (bonus %s)", formatMoney(result.Bonus.BonusValue))
	}
	s.printSuccess(msg)
	return nil
}

// handlePublish publishes or edits a draw result
func (s *Shell) handlePublish(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: publish <draw_id> <straight> <secondary> [edit] [settle]")
	}
	if err := s.requireActing(); err != nil {
		return err
	}
	drawID, err := parseID("draw id", args[0])
	if err != nil {
		return err
	}
	flags := args[3:]
	req := dto.PublishDrawDTO{
		DrawID:          drawID,
		StraightResult:  args[1],
		SecondaryResult: args[2],
		ActingAccountID: s.actingID,
		Edit:            lo.Contains(flags, "edit"),
		SettleWinners:   lo.Contains(flags, "settle"),
	}

	if !s.confirmAction(fmt.Sprintf("Publish %s / %s for draw %d?", req.StraightResult, req.SecondaryResult, drawID)) {
		s.printInfo("Cancelled")
		return nil
	}

	result, err := s.handlers.Draws.PublishDraw(ctx, req)
	if err != nil {
		return err
	}

	s.logAdminAction("publish_draw", log.Fields{
		"drawID":    drawID,
		"straight":  req.StraightResult,
		"secondary": req.SecondaryResult,
		"edit":      req.Edit,
	})

	s.printSuccess(fmt.Sprintf("Draw %d published: %d winners, %d losers, %d payouts settled",
		drawID, len(result.Resolution.Winners), len(result.Resolution.Losers), len(result.Settled)))
	for requestID, failure := range result.Failed {
		s.printWarning(fmt.Sprintf("Payout request %d left pending: %v", requestID, failure))
	}
	return nil
}

// handleLock toggles a draw's lock flag
func (s *Shell) handleLock(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lock <draw_id>")
	}
	if err := s.requireActing(); err != nil {
		return err
	}
	drawID, err := parseID("draw id", args[0])
	if err != nil {
		return err
	}

	if !s.confirmAction(fmt.Sprintf("Toggle lock on draw %d?", drawID)) {
		s.printInfo("Cancelled")
		return nil
	}

	draw, err := s.handlers.Draws.ToggleLock(ctx, drawID, s.actingID)
	if err != nil {
		return err
	}

	s.logAdminAction("toggle_lock", log.Fields{"drawID": drawID, "locked": draw.Locked})
	state := "unlocked"
	if draw.Locked {
		state = "locked"
	}
	s.printSuccess(fmt.Sprintf("Draw %d is now %s", drawID, state))
	return nil
}

func (s *Shell) loadAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	uow := s.handlers.UnitOfWork.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, &entities.NotFoundError{Resource: "account", ID: accountID}
	}
	return account, nil
}
