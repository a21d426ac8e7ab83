package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"thelife/game"
	"thelife/models"
)

func carWash() *models.BusinessDefinition {
	return &models.BusinessDefinition{
		ID:              3,
		Name:            "Car Wash",
		MinLevel:        1,
		PurchasePrice:   300,
		ProductionCost:  50,
		TicketCost:      5,
		DurationMinutes: 60,
		RewardKind:      models.RewardKindCash,
		CashProfit:      200,
	}
}

func TestBusinessService_Purchase(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(nil, nil)
	f.uow.Businesses.On("CountOwned", mock.Anything, p.ID).Return(0, nil)
	f.uow.Businesses.On("CreateOwned", mock.Anything, mock.MatchedBy(func(o *models.OwnedBusiness) bool {
		return o.BusinessID == b.ID && o.UpgradeLevel == 1
	})).Return(nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	player, out, err := svc.PurchaseBusiness(ctx, p.ID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(200), player.Cash)
	assert.Equal(t, 1, out.SlotsUsed)
	assert.Equal(t, 1, out.SlotsTotal)
	f.uow.Businesses.AssertExpectations(t)
}

func TestBusinessService_Purchase_NoFreeSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(nil, nil)
	f.uow.Businesses.On("CountOwned", mock.Anything, p.ID).Return(1, nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	_, _, err := svc.PurchaseBusiness(ctx, p.ID, b.ID)

	assert.ErrorIs(t, err, game.ErrCapacityExceeded)
	f.uow.Businesses.AssertNotCalled(t, "CreateOwned", mock.Anything, mock.Anything)
}

func TestBusinessService_Purchase_AlreadyOwned(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 1}, nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	_, _, err := svc.PurchaseBusiness(ctx, p.ID, b.ID)

	assert.ErrorIs(t, err, game.ErrAlreadyExists)
}

func TestBusinessService_StartProduction(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 1}, nil)
	f.uow.Businesses.On("GetJob", mock.Anything, p.ID, b.ID).Return(&models.ProductionJob{Collected: true}, nil)
	f.uow.Businesses.On("SaveJob", mock.Anything, mock.MatchedBy(func(j *models.ProductionJob) bool {
		return j.CompletedAt.Equal(testNow.Add(time.Hour)) && !j.Collected && j.Reward == models.CashReward(200)
	})).Return(nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	player, out, err := svc.StartProduction(ctx, p.ID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(450), player.Cash)
	assert.Equal(t, 95, player.Tickets)
	assert.Equal(t, 5, out.TicketCost)
}

func TestBusinessService_StartProduction_PendingJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 1}, nil)
	f.uow.Businesses.On("GetJob", mock.Anything, p.ID, b.ID).Return(&models.ProductionJob{CompletedAt: testNow.Add(time.Minute)}, nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	_, _, err := svc.StartProduction(ctx, p.ID, b.ID)

	assert.ErrorIs(t, err, game.ErrAlreadyExists)
}

func TestBusinessService_StartProduction_NotOwned(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(nil, nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	_, _, err := svc.StartProduction(ctx, p.ID, b.ID)

	assert.ErrorIs(t, err, game.ErrNotOwned)
}

func TestBusinessService_CollectProduction_ScalesCash(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	b := carWash()
	job := &models.ProductionJob{
		PlayerID:    p.ID,
		BusinessID:  b.ID,
		StartedAt:   testNow.Add(-2 * time.Hour),
		CompletedAt: testNow.Add(-time.Hour),
		Reward:      models.CashReward(200),
	}
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 3}, nil)
	f.uow.Businesses.On("GetJob", mock.Anything, p.ID, b.ID).Return(job, nil)
	f.uow.Businesses.On("MarkCollected", mock.Anything, p.ID, b.ID).Return(nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	player, out, err := svc.CollectProduction(ctx, p.ID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, models.CashReward(320), out.Reward)
	assert.Equal(t, int64(820), player.Cash)
	f.uow.Businesses.AssertExpectations(t)
}

func TestBusinessService_CollectProduction_ItemsGoToInventory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	b := carWash()
	job := &models.ProductionJob{
		PlayerID:    p.ID,
		BusinessID:  b.ID,
		StartedAt:   testNow.Add(-time.Hour),
		CompletedAt: testNow,
		Reward:      models.ItemReward(9, 4),
	}
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 2}, nil)
	f.uow.Businesses.On("GetJob", mock.Anything, p.ID, b.ID).Return(job, nil)
	f.uow.Businesses.On("MarkCollected", mock.Anything, p.ID, b.ID).Return(nil)
	f.uow.Inventory.On("Add", mock.Anything, p.ID, int64(9), int64(6)).Return(nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	player, out, err := svc.CollectProduction(ctx, p.ID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, models.ItemReward(9, 6), out.Reward)
	assert.Equal(t, int64(500), player.Cash)
	f.uow.Inventory.AssertExpectations(t)
}

func TestBusinessService_CollectProduction_NotReady(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)

	b := carWash()
	job := &models.ProductionJob{
		StartedAt:   testNow.Add(-30 * time.Minute),
		CompletedAt: testNow.Add(30 * time.Minute),
		Reward:      models.CashReward(200),
	}
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 1}, nil)
	f.uow.Businesses.On("GetJob", mock.Anything, p.ID, b.ID).Return(job, nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	_, _, err := svc.CollectProduction(ctx, p.ID, b.ID)

	assert.ErrorIs(t, err, game.ErrNotReady)
	f.uow.Businesses.AssertNotCalled(t, "MarkCollected", mock.Anything, mock.Anything, mock.Anything)
}

func TestBusinessService_Upgrade(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	p.Cash = 40_000
	f.lock(p)
	f.expectWrite()

	b := carWash()
	b.PurchasePrice = 5000
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 3}, nil)
	f.uow.Businesses.On("UpdateLevel", mock.Anything, p.ID, b.ID, 4).Return(nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	player, out, err := svc.UpgradeBusiness(ctx, p.ID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(32_400), out.Cost)
	assert.Equal(t, 4, out.NewLevel)
	assert.Equal(t, int64(7_600), player.Cash)
}

func TestBusinessService_Upgrade_AtCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: game.MaxUpgradeLevel}, nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	_, _, err := svc.UpgradeBusiness(ctx, p.ID, b.ID)

	assert.ErrorIs(t, err, game.ErrCapacityExceeded)
}

func TestBusinessService_Sell(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	b := carWash()
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetOwned", mock.Anything, p.ID, b.ID).Return(&models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 5}, nil)
	f.uow.Businesses.On("DeleteOwned", mock.Anything, p.ID, b.ID).Return(nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	player, out, err := svc.SellBusiness(ctx, p.ID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(100), out.Refund)
	assert.Equal(t, int64(600), player.Cash)
}

func TestBusinessService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.uow.On("Commit").Return(nil)

	b := carWash()
	owned := &models.OwnedBusiness{PlayerID: p.ID, BusinessID: b.ID, UpgradeLevel: 1}
	job := &models.ProductionJob{
		StartedAt:   testNow.Add(-15 * time.Minute),
		CompletedAt: testNow.Add(45 * time.Minute),
	}
	f.uow.Businesses.On("ListOwned", mock.Anything, p.ID).Return([]*models.OwnedBusiness{owned}, nil)
	f.uow.Catalog.On("GetBusiness", mock.Anything, b.ID).Return(b, nil)
	f.uow.Businesses.On("GetJob", mock.Anything, p.ID, b.ID).Return(job, nil)

	svc := NewBusinessService(f.factory, testOptions(nil))
	views, err := svc.ListBusinesses(ctx, p.ID)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].Ready)
	assert.Equal(t, 45*time.Minute, views[0].ReadyIn)
	assert.Equal(t, int64(600), views[0].UpgradeFee)
}
