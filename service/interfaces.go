package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"thelife/events"
	"thelife/game"
	"thelife/models"
)

// PlayerRepository defines the interface for player ledger access
type PlayerRepository interface {
	// Provision inserts a starting record unless the player already exists.
	// Reports whether a row was created.
	Provision(ctx context.Context, player *models.Player) (bool, error)

	// LockForUpdate loads and row-locks the given players in ascending id
	// order. Missing players are absent from the result.
	LockForUpdate(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Player, error)

	// Save writes the player back if nobody else has since, bumping its version.
	// Returns game.ErrConcurrentModification on a version mismatch.
	Save(ctx context.Context, player *models.Player) error
}

// CatalogRepository defines read access to the immutable catalog
type CatalogRepository interface {
	GetCrime(ctx context.Context, id int64) (*models.CrimeDefinition, error)
	ListCrimes(ctx context.Context) ([]*models.CrimeDefinition, error)
	GetBusiness(ctx context.Context, id int64) (*models.BusinessDefinition, error)
	GetWorker(ctx context.Context, id int64) (*models.WorkerDefinition, error)
	GetStoreItem(ctx context.Context, id int64) (*models.StoreItem, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
}

// InventoryRepository defines the interface for inventory access
type InventoryRepository interface {
	// Add merges quantity into the player's stack of the item
	Add(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) error

	// Remove takes quantity from the stack, deleting it when it empties.
	// Returns game.ErrInsufficientResource when the player holds fewer.
	Remove(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) error

	// FindByKind returns the first stack of an item of the given kind
	FindByKind(ctx context.Context, playerID uuid.UUID, kind models.ItemKind) (*models.InventoryStack, error)

	// List returns all of the player's stacks
	List(ctx context.Context, playerID uuid.UUID) ([]*models.InventoryStack, error)
}

// CrimeHistoryRepository defines the interface for crime attempt records
type CrimeHistoryRepository interface {
	Record(ctx context.Context, history *models.CrimeHistory) error
	GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.CrimeHistory, error)
}

// BusinessRepository defines the interface for owned businesses and production jobs
type BusinessRepository interface {
	GetOwned(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.OwnedBusiness, error)
	ListOwned(ctx context.Context, playerID uuid.UUID) ([]*models.OwnedBusiness, error)
	CountOwned(ctx context.Context, playerID uuid.UUID) (int, error)
	CreateOwned(ctx context.Context, owned *models.OwnedBusiness) error
	UpdateLevel(ctx context.Context, playerID uuid.UUID, businessID int64, level int) error
	DeleteOwned(ctx context.Context, playerID uuid.UUID, businessID int64) error

	GetJob(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.ProductionJob, error)
	// SaveJob creates the job or replaces a collected one
	SaveJob(ctx context.Context, job *models.ProductionJob) error
	MarkCollected(ctx context.Context, playerID uuid.UUID, businessID int64) error
}

// BrothelRepository defines the interface for brothel state and hired workers
type BrothelRepository interface {
	Get(ctx context.Context, playerID uuid.UUID) (*models.BrothelState, error)
	Create(ctx context.Context, brothel *models.BrothelState) error
	Update(ctx context.Context, brothel *models.BrothelState) error

	AddHired(ctx context.Context, hired *models.HiredWorker) error
	GetHired(ctx context.Context, id int64) (*models.HiredWorker, error)
	DeleteHired(ctx context.Context, id int64) error
	ListHired(ctx context.Context, playerID uuid.UUID) ([]*models.HiredWorker, error)
}

// CombatLogRepository defines the interface for the append-only combat log
type CombatLogRepository interface {
	Record(ctx context.Context, entry *models.CombatLogEntry) error
	GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.CombatLogEntry, error)
}

// DockRepository defines the interface for boats and shipments
type DockRepository interface {
	GetBoat(ctx context.Context, id int64) (*models.DockBoat, error)
	ListOpen(ctx context.Context, now time.Time) ([]*models.DockBoat, error)

	// ClaimSlot takes one shipment slot on the boat, failing with
	// game.ErrCapacityExceeded when none are left
	ClaimSlot(ctx context.Context, boatID int64) error

	RecordShipment(ctx context.Context, shipment *models.DockShipment) error
}

// LedgerRepository defines the interface for cash and bank history
type LedgerRepository interface {
	Record(ctx context.Context, history *models.LedgerHistory) error
	GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.LedgerHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork is one serializable transaction and the repositories bound to it
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PlayerRepository() PlayerRepository
	CatalogRepository() CatalogRepository
	InventoryRepository() InventoryRepository
	CrimeHistoryRepository() CrimeHistoryRepository
	BusinessRepository() BusinessRepository
	BrothelRepository() BrothelRepository
	CombatLogRepository() CombatLogRepository
	DockRepository() DockRepository
	LedgerRepository() LedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// PlayerState is a player snapshot with its derived confinement status
type PlayerState struct {
	Player         *models.Player           `json:"player"`
	Status         game.Status              `json:"status"`
	NextTicketIn   time.Duration            `json:"next_ticket_in"`
	Inventory      []*models.InventoryStack `json:"inventory"`
	BusinessSlots  int                      `json:"business_slots"`
	PendingBrothel int64                    `json:"pending_brothel_income"`
	HasBrothel     bool                     `json:"has_brothel"`
}

// Action methods below return (player, outcome, error). A rejected action
// still returns the player as caught up to now, with a nil outcome; only
// internal and exhausted-retry failures return no player.

// PlayerService defines the ledger-level operations
type PlayerService interface {
	// GetState provisions, catches up and returns the player
	GetState(ctx context.Context, playerID uuid.UUID) (*PlayerState, error)

	// DepositBank moves cash into the bank
	DepositBank(ctx context.Context, playerID uuid.UUID, amount int64) (*models.Player, *models.BankOutcome, error)

	// WithdrawBank moves bank balance into cash
	WithdrawBank(ctx context.Context, playerID uuid.UUID, amount int64) (*models.Player, *models.BankOutcome, error)

	// LedgerHistory returns recent cash and bank movements
	LedgerHistory(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.LedgerHistory, error)
}

// ConfinementService defines the jail and hospital operations
type ConfinementService interface {
	// EscapeWithItem consumes a jail-free item to leave jail
	EscapeWithItem(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.EscapeOutcome, error)

	// EscapeWithBribe pays a wealth-proportional bribe to leave jail
	EscapeWithBribe(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.EscapeOutcome, error)

	// PayHospitalFee buys a hospital treatment
	PayHospitalFee(ctx context.Context, playerID uuid.UUID, treatment game.Treatment) (*models.Player, *models.TreatmentOutcome, error)
}

// CrimeService defines the crime operations
type CrimeService interface {
	// AttemptCrime resolves one crime attempt
	AttemptCrime(ctx context.Context, playerID uuid.UUID, crimeID int64) (*models.Player, *models.CrimeOutcome, error)

	// ListCrimes returns the catalog with the player's current chances
	ListCrimes(ctx context.Context, playerID uuid.UUID) ([]*models.CrimeOption, error)
}

// BusinessService defines the business operations
type BusinessService interface {
	PurchaseBusiness(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.PurchaseOutcome, error)
	StartProduction(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.ProductionOutcome, error)
	CollectProduction(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.CollectOutcome, error)
	UpgradeBusiness(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.UpgradeOutcome, error)
	SellBusiness(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.SaleOutcome, error)
	ListBusinesses(ctx context.Context, playerID uuid.UUID) ([]*models.BusinessView, error)
}

// BrothelService defines the brothel operations
type BrothelService interface {
	OpenBrothel(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.BrothelOutcome, error)
	HireWorker(ctx context.Context, playerID uuid.UUID, workerID int64) (*models.Player, *models.BrothelOutcome, error)
	SellWorker(ctx context.Context, playerID uuid.UUID, hiredWorkerID int64) (*models.Player, *models.BrothelOutcome, error)
	CollectIncome(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.BrothelOutcome, error)
	UpgradeSlots(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.BrothelOutcome, error)
}

// CombatService defines the PvP operations
type CombatService interface {
	// Attack resolves an attack by attackerID on defenderID
	Attack(ctx context.Context, attackerID, defenderID uuid.UUID) (*models.Player, *models.AttackOutcome, error)
}

// MarketService defines the resale channels
type MarketService interface {
	SellStreet(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) (*models.Player, *models.StreetSaleOutcome, error)
	BuyStoreItem(ctx context.Context, playerID uuid.UUID, storeItemID int64) (*models.Player, *models.StorePurchaseOutcome, error)
	ShipDock(ctx context.Context, playerID uuid.UUID, boatID, quantity int64) (*models.Player, *models.DockShipment, error)
	ListBoats(ctx context.Context) ([]*models.DockBoat, error)
}
