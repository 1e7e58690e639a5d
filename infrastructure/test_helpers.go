package infrastructure

import (
	"lottosettle/application"
	"lottosettle/database"
	"lottosettle/domain/interfaces"
	"lottosettle/repository"
)

// TestUnitOfWorkFactory is a test factory that creates new unit of work instances
// This is placed in infrastructure package to avoid circular dependencies between
// application and repository packages
type TestUnitOfWorkFactory struct {
	db             *database.DB
	eventPublisher interfaces.EventPublisher
}

// NewTestUnitOfWorkFactory creates a new test unit of work factory. Each unit of work
// gets its own transactional publisher that flushes into eventPublisher.
func NewTestUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *TestUnitOfWorkFactory {
	return &TestUnitOfWorkFactory{
		db:             db,
		eventPublisher: eventPublisher,
	}
}

// Create creates a new UnitOfWork instance for testing
func (f *TestUnitOfWorkFactory) Create() application.UnitOfWork {
	return repository.CreateTestUnitOfWork(f.db, NewNATSTransactionalPublisher(f.eventPublisher))
}
