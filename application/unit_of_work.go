package application

import (
	"context"

	"lottosettle/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and then releases pending events
	Commit() error

	// Rollback rolls back the transaction and drops pending events
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	DrawRepository() interfaces.DrawRepository
	FinancialRequestRepository() interfaces.FinancialRequestRepository
	WagerRepository() interfaces.WagerRepository
	LedgerRepository() interfaces.LedgerRepository
	SettingsRepository() interfaces.SettingsRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
