package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"thelife/events"
	"thelife/models"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Provision(ctx context.Context, player *models.Player) (bool, error) {
	args := m.Called(ctx, player)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) LockForUpdate(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Player, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Save(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

// MockCatalogRepository is a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetCrime(ctx context.Context, id int64) (*models.CrimeDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CrimeDefinition), args.Error(1)
}

func (m *MockCatalogRepository) ListCrimes(ctx context.Context) ([]*models.CrimeDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CrimeDefinition), args.Error(1)
}

func (m *MockCatalogRepository) GetBusiness(ctx context.Context, id int64) (*models.BusinessDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessDefinition), args.Error(1)
}

func (m *MockCatalogRepository) GetWorker(ctx context.Context, id int64) (*models.WorkerDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkerDefinition), args.Error(1)
}

func (m *MockCatalogRepository) GetStoreItem(ctx context.Context, id int64) (*models.StoreItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoreItem), args.Error(1)
}

func (m *MockCatalogRepository) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Add(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) error {
	args := m.Called(ctx, playerID, itemID, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) Remove(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) error {
	args := m.Called(ctx, playerID, itemID, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindByKind(ctx context.Context, playerID uuid.UUID, kind models.ItemKind) (*models.InventoryStack, error) {
	args := m.Called(ctx, playerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryStack), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, playerID uuid.UUID) ([]*models.InventoryStack, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryStack), args.Error(1)
}

// MockCrimeHistoryRepository is a mock implementation of CrimeHistoryRepository
type MockCrimeHistoryRepository struct {
	mock.Mock
}

func (m *MockCrimeHistoryRepository) Record(ctx context.Context, history *models.CrimeHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockCrimeHistoryRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.CrimeHistory, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CrimeHistory), args.Error(1)
}

// MockBusinessRepository is a mock implementation of BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) GetOwned(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.OwnedBusiness, error) {
	args := m.Called(ctx, playerID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OwnedBusiness), args.Error(1)
}

func (m *MockBusinessRepository) ListOwned(ctx context.Context, playerID uuid.UUID) ([]*models.OwnedBusiness, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OwnedBusiness), args.Error(1)
}

func (m *MockBusinessRepository) CountOwned(ctx context.Context, playerID uuid.UUID) (int, error) {
	args := m.Called(ctx, playerID)
	return args.Int(0), args.Error(1)
}

func (m *MockBusinessRepository) CreateOwned(ctx context.Context, owned *models.OwnedBusiness) error {
	args := m.Called(ctx, owned)
	return args.Error(0)
}

func (m *MockBusinessRepository) UpdateLevel(ctx context.Context, playerID uuid.UUID, businessID int64, level int) error {
	args := m.Called(ctx, playerID, businessID, level)
	return args.Error(0)
}

func (m *MockBusinessRepository) DeleteOwned(ctx context.Context, playerID uuid.UUID, businessID int64) error {
	args := m.Called(ctx, playerID, businessID)
	return args.Error(0)
}

func (m *MockBusinessRepository) GetJob(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.ProductionJob, error) {
	args := m.Called(ctx, playerID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductionJob), args.Error(1)
}

func (m *MockBusinessRepository) SaveJob(ctx context.Context, job *models.ProductionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockBusinessRepository) MarkCollected(ctx context.Context, playerID uuid.UUID, businessID int64) error {
	args := m.Called(ctx, playerID, businessID)
	return args.Error(0)
}

// MockBrothelRepository is a mock implementation of BrothelRepository
type MockBrothelRepository struct {
	mock.Mock
}

func (m *MockBrothelRepository) Get(ctx context.Context, playerID uuid.UUID) (*models.BrothelState, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BrothelState), args.Error(1)
}

func (m *MockBrothelRepository) Create(ctx context.Context, brothel *models.BrothelState) error {
	args := m.Called(ctx, brothel)
	return args.Error(0)
}

func (m *MockBrothelRepository) Update(ctx context.Context, brothel *models.BrothelState) error {
	args := m.Called(ctx, brothel)
	return args.Error(0)
}

func (m *MockBrothelRepository) AddHired(ctx context.Context, hired *models.HiredWorker) error {
	args := m.Called(ctx, hired)
	return args.Error(0)
}

func (m *MockBrothelRepository) GetHired(ctx context.Context, id int64) (*models.HiredWorker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HiredWorker), args.Error(1)
}

func (m *MockBrothelRepository) DeleteHired(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBrothelRepository) ListHired(ctx context.Context, playerID uuid.UUID) ([]*models.HiredWorker, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HiredWorker), args.Error(1)
}

// MockCombatLogRepository is a mock implementation of CombatLogRepository
type MockCombatLogRepository struct {
	mock.Mock
}

func (m *MockCombatLogRepository) Record(ctx context.Context, entry *models.CombatLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCombatLogRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.CombatLogEntry, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CombatLogEntry), args.Error(1)
}

// MockDockRepository is a mock implementation of DockRepository
type MockDockRepository struct {
	mock.Mock
}

func (m *MockDockRepository) GetBoat(ctx context.Context, id int64) (*models.DockBoat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DockBoat), args.Error(1)
}

func (m *MockDockRepository) ListOpen(ctx context.Context, now time.Time) ([]*models.DockBoat, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DockBoat), args.Error(1)
}

func (m *MockDockRepository) ClaimSlot(ctx context.Context, boatID int64) error {
	args := m.Called(ctx, boatID)
	return args.Error(0)
}

func (m *MockDockRepository) RecordShipment(ctx context.Context, shipment *models.DockShipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, history *models.LedgerHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.LedgerHistory, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever was installed on the exported fields.
type MockUnitOfWork struct {
	mock.Mock

	Players      *MockPlayerRepository
	Catalog      *MockCatalogRepository
	Inventory    *MockInventoryRepository
	CrimeHistory *MockCrimeHistoryRepository
	Businesses   *MockBusinessRepository
	Brothels     *MockBrothelRepository
	CombatLog    *MockCombatLogRepository
	Docks        *MockDockRepository
	Ledger       *MockLedgerRepository
	Events       *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with a fresh mock behind every getter
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Players:      new(MockPlayerRepository),
		Catalog:      new(MockCatalogRepository),
		Inventory:    new(MockInventoryRepository),
		CrimeHistory: new(MockCrimeHistoryRepository),
		Businesses:   new(MockBusinessRepository),
		Brothels:     new(MockBrothelRepository),
		CombatLog:    new(MockCombatLogRepository),
		Docks:        new(MockDockRepository),
		Ledger:       new(MockLedgerRepository),
		Events:       new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) PlayerRepository() PlayerRepository             { return m.Players }
func (m *MockUnitOfWork) CatalogRepository() CatalogRepository           { return m.Catalog }
func (m *MockUnitOfWork) InventoryRepository() InventoryRepository       { return m.Inventory }
func (m *MockUnitOfWork) CrimeHistoryRepository() CrimeHistoryRepository { return m.CrimeHistory }
func (m *MockUnitOfWork) BusinessRepository() BusinessRepository         { return m.Businesses }
func (m *MockUnitOfWork) BrothelRepository() BrothelRepository           { return m.Brothels }
func (m *MockUnitOfWork) CombatLogRepository() CombatLogRepository       { return m.CombatLog }
func (m *MockUnitOfWork) DockRepository() DockRepository                 { return m.Docks }
func (m *MockUnitOfWork) LedgerRepository() LedgerRepository             { return m.Ledger }
func (m *MockUnitOfWork) EventBus() EventPublisher                       { return m.Events }

// AssertAllExpectations checks the unit of work and every repository behind it
func (m *MockUnitOfWork) AssertAllExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.Players.AssertExpectations(t)
	m.Catalog.AssertExpectations(t)
	m.Inventory.AssertExpectations(t)
	m.CrimeHistory.AssertExpectations(t)
	m.Businesses.AssertExpectations(t)
	m.Brothels.AssertExpectations(t)
	m.CombatLog.AssertExpectations(t)
	m.Docks.AssertExpectations(t)
	m.Ledger.AssertExpectations(t)
	m.Events.AssertExpectations(t)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
