package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"thelife/game"
	"thelife/models"
	"thelife/service"
)

// result unpacks the (player, outcome, error) triple most mocks return
func result[T any](args mock.Arguments) (*models.Player, *T, error) {
	var p *models.Player
	if v := args.Get(0); v != nil {
		p = v.(*models.Player)
	}
	var out *T
	if v := args.Get(1); v != nil {
		out = v.(*T)
	}
	return p, out, args.Error(2)
}

type MockPlayerService struct{ mock.Mock }

func (m *MockPlayerService) GetState(ctx context.Context, playerID uuid.UUID) (*service.PlayerState, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlayerState), args.Error(1)
}

func (m *MockPlayerService) DepositBank(ctx context.Context, playerID uuid.UUID, amount int64) (*models.Player, *models.BankOutcome, error) {
	return result[models.BankOutcome](m.Called(ctx, playerID, amount))
}

func (m *MockPlayerService) WithdrawBank(ctx context.Context, playerID uuid.UUID, amount int64) (*models.Player, *models.BankOutcome, error) {
	return result[models.BankOutcome](m.Called(ctx, playerID, amount))
}

func (m *MockPlayerService) LedgerHistory(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.LedgerHistory, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerHistory), args.Error(1)
}

type MockConfinementService struct{ mock.Mock }

func (m *MockConfinementService) EscapeWithItem(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.EscapeOutcome, error) {
	return result[models.EscapeOutcome](m.Called(ctx, playerID))
}

func (m *MockConfinementService) EscapeWithBribe(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.EscapeOutcome, error) {
	return result[models.EscapeOutcome](m.Called(ctx, playerID))
}

func (m *MockConfinementService) PayHospitalFee(ctx context.Context, playerID uuid.UUID, treatment game.Treatment) (*models.Player, *models.TreatmentOutcome, error) {
	return result[models.TreatmentOutcome](m.Called(ctx, playerID, treatment))
}

type MockCrimeService struct{ mock.Mock }

func (m *MockCrimeService) AttemptCrime(ctx context.Context, playerID uuid.UUID, crimeID int64) (*models.Player, *models.CrimeOutcome, error) {
	return result[models.CrimeOutcome](m.Called(ctx, playerID, crimeID))
}

func (m *MockCrimeService) ListCrimes(ctx context.Context, playerID uuid.UUID) ([]*models.CrimeOption, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CrimeOption), args.Error(1)
}

type MockCombatService struct{ mock.Mock }

func (m *MockCombatService) Attack(ctx context.Context, attackerID, defenderID uuid.UUID) (*models.Player, *models.AttackOutcome, error) {
	return result[models.AttackOutcome](m.Called(ctx, attackerID, defenderID))
}

type MockMarketService struct{ mock.Mock }

func (m *MockMarketService) SellStreet(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) (*models.Player, *models.StreetSaleOutcome, error) {
	return result[models.StreetSaleOutcome](m.Called(ctx, playerID, itemID, quantity))
}

func (m *MockMarketService) BuyStoreItem(ctx context.Context, playerID uuid.UUID, storeItemID int64) (*models.Player, *models.StorePurchaseOutcome, error) {
	return result[models.StorePurchaseOutcome](m.Called(ctx, playerID, storeItemID))
}

func (m *MockMarketService) ShipDock(ctx context.Context, playerID uuid.UUID, boatID, quantity int64) (*models.Player, *models.DockShipment, error) {
	return result[models.DockShipment](m.Called(ctx, playerID, boatID, quantity))
}

func (m *MockMarketService) ListBoats(ctx context.Context) ([]*models.DockBoat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DockBoat), args.Error(1)
}
