package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"thelife/database"
	"thelife/events"
	"thelife/service"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	catalogCache     *CatalogCache

	playerRepo       service.PlayerRepository
	catalogRepo      service.CatalogRepository
	inventoryRepo    service.InventoryRepository
	crimeHistoryRepo service.CrimeHistoryRepository
	businessRepo     service.BusinessRepository
	brothelRepo      service.BrothelRepository
	combatLogRepo    service.CombatLogRepository
	dockRepo         service.DockRepository
	ledgerRepo       service.LedgerRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Catalog reads share
// catalogCache across units of work.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, catalogCache *CatalogCache) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:           db,
		eventBus:     eventBus,
		catalogCache: catalogCache,
	}
}

type unitOfWorkFactory struct {
	db           *database.DB
	eventBus     *events.Bus
	catalogCache *CatalogCache
}

// Create returns a unit of work with its own event buffer. Call Begin before use.
func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
		catalogCache:     f.catalogCache,
	}
}

// Begin starts a new serializable transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.BeginTx(ctx, database.Serializable)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Bind every repository to the transaction
	u.playerRepo = newPlayerRepositoryWithTx(tx)
	u.catalogRepo = newCatalogRepositoryWithTx(tx, u.catalogCache) // shared cache, rows outlive the tx
	u.inventoryRepo = newInventoryRepositoryWithTx(tx)
	u.crimeHistoryRepo = newCrimeHistoryRepositoryWithTx(tx)
	u.businessRepo = newBusinessRepositoryWithTx(tx)
	u.brothelRepo = newBrothelRepositoryWithTx(tx)
	u.combatLogRepo = newCombatLogRepositoryWithTx(tx)
	u.dockRepo = newDockRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Clear the transaction
	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

func notStarted() {
	panic("unit of work not started - call Begin() first")
}

// PlayerRepository returns the player repository for this unit of work
func (u *unitOfWork) PlayerRepository() service.PlayerRepository {
	if u.playerRepo == nil {
		notStarted()
	}
	return u.playerRepo
}

// CatalogRepository returns the catalog repository for this unit of work
func (u *unitOfWork) CatalogRepository() service.CatalogRepository {
	if u.catalogRepo == nil {
		notStarted()
	}
	return u.catalogRepo
}

// InventoryRepository returns the inventory repository for this unit of work
func (u *unitOfWork) InventoryRepository() service.InventoryRepository {
	if u.inventoryRepo == nil {
		notStarted()
	}
	return u.inventoryRepo
}

// CrimeHistoryRepository returns the crime history repository for this unit of work
func (u *unitOfWork) CrimeHistoryRepository() service.CrimeHistoryRepository {
	if u.crimeHistoryRepo == nil {
		notStarted()
	}
	return u.crimeHistoryRepo
}

// BusinessRepository returns the business repository for this unit of work
func (u *unitOfWork) BusinessRepository() service.BusinessRepository {
	if u.businessRepo == nil {
		notStarted()
	}
	return u.businessRepo
}

// BrothelRepository returns the brothel repository for this unit of work
func (u *unitOfWork) BrothelRepository() service.BrothelRepository {
	if u.brothelRepo == nil {
		notStarted()
	}
	return u.brothelRepo
}

// CombatLogRepository returns the combat log repository for this unit of work
func (u *unitOfWork) CombatLogRepository() service.CombatLogRepository {
	if u.combatLogRepo == nil {
		notStarted()
	}
	return u.combatLogRepo
}

// DockRepository returns the dock repository for this unit of work
func (u *unitOfWork) DockRepository() service.DockRepository {
	if u.dockRepo == nil {
		notStarted()
	}
	return u.dockRepo
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	if u.ledgerRepo == nil {
		notStarted()
	}
	return u.ledgerRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		notStarted()
	}
	return u.transactionalBus
}
