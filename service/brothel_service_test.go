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

func dancer() *models.WorkerDefinition {
	return &models.WorkerDefinition{ID: 2, Name: "Dancer", HireCost: 3000, IncomePerHour: 120, MinLevel: 1}
}

func openBrothel(p *models.Player, since time.Time) *models.BrothelState {
	b := game.NewBrothel(p, since)
	b.Workers = 1
	b.IncomePerHour = 100
	return b
}

func TestBrothelService_Open(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	p.Cash = 30_000
	p.Level = 4
	f.lock(p)
	f.expectWrite()

	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(nil, nil)
	f.uow.Brothels.On("Create", mock.Anything, mock.MatchedBy(func(b *models.BrothelState) bool {
		return b.WorkerSlots == 6 && b.SlotsUpgradeCost == game.BrothelSlotUpgradeCost && b.LastCollection.Equal(testNow)
	})).Return(nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	player, out, err := svc.OpenBrothel(ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(5_000), player.Cash)
	assert.Equal(t, int64(game.BrothelOpenCost), out.CashSpent)
}

func TestBrothelService_Open_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(openBrothel(p, testNow), nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	_, _, err := svc.OpenBrothel(ctx, p.ID)

	assert.ErrorIs(t, err, game.ErrAlreadyExists)
}

func TestBrothelService_HireWorker_SettlesFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	p.Cash = 5000
	f.lock(p)
	f.expectWrite()

	brothel := openBrothel(p, testNow.Add(-3*time.Hour))
	w := dancer()
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(brothel, nil)
	f.uow.Catalog.On("GetWorker", mock.Anything, w.ID).Return(w, nil)
	f.uow.Brothels.On("AddHired", mock.Anything, mock.MatchedBy(func(h *models.HiredWorker) bool {
		return h.WorkerID == w.ID && h.PlayerID == p.ID
	})).Return(nil)
	f.uow.Brothels.On("Update", mock.Anything, brothel).Return(nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	player, out, err := svc.HireWorker(ctx, p.ID, w.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(300), out.Collected)
	assert.Equal(t, int64(5000+300-3000), player.Cash)
	assert.Equal(t, 2, brothel.Workers)
	assert.Equal(t, int64(220), brothel.IncomePerHour)
	assert.True(t, brothel.LastCollection.Equal(testNow))
}

func TestBrothelService_HireWorker_NoRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)

	brothel := openBrothel(p, testNow)
	brothel.Workers = brothel.TotalSlots()
	w := dancer()
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(brothel, nil)
	f.uow.Catalog.On("GetWorker", mock.Anything, w.ID).Return(w, nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	_, _, err := svc.HireWorker(ctx, p.ID, w.ID)

	assert.ErrorIs(t, err, game.ErrCapacityExceeded)
	f.uow.Brothels.AssertNotCalled(t, "AddHired", mock.Anything, mock.Anything)
}

func TestBrothelService_HireWorker_TooJunior(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	p.Cash = 10_000
	f.lock(p)

	w := dancer()
	w.MinLevel = 8
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(openBrothel(p, testNow), nil)
	f.uow.Catalog.On("GetWorker", mock.Anything, w.ID).Return(w, nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	_, _, err := svc.HireWorker(ctx, p.ID, w.ID)

	assert.ErrorIs(t, err, game.ErrBelowLevelRequirement)
}

func TestBrothelService_SellWorker(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	brothel := openBrothel(p, testNow)
	brothel.IncomePerHour = 220
	brothel.Workers = 2
	w := dancer()
	hired := &models.HiredWorker{ID: 11, PlayerID: p.ID, WorkerID: w.ID}
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(brothel, nil)
	f.uow.Brothels.On("GetHired", mock.Anything, int64(11)).Return(hired, nil)
	f.uow.Catalog.On("GetWorker", mock.Anything, w.ID).Return(w, nil)
	f.uow.Brothels.On("DeleteHired", mock.Anything, int64(11)).Return(nil)
	f.uow.Brothels.On("Update", mock.Anything, brothel).Return(nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	player, out, err := svc.SellWorker(ctx, p.ID, 11)

	require.NoError(t, err)
	assert.Equal(t, int64(1000), out.Refund)
	assert.Equal(t, int64(1500), player.Cash)
	assert.Equal(t, 1, brothel.Workers)
	assert.Equal(t, int64(100), brothel.IncomePerHour)
}

func TestBrothelService_SellWorker_SomeoneElses(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p, other := testPlayer(), testPlayer()
	f.lock(p)

	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(openBrothel(p, testNow), nil)
	f.uow.Brothels.On("GetHired", mock.Anything, int64(11)).Return(&models.HiredWorker{ID: 11, PlayerID: other.ID, WorkerID: 2}, nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	_, _, err := svc.SellWorker(ctx, p.ID, 11)

	assert.ErrorIs(t, err, game.ErrNotOwned)
}

func TestBrothelService_CollectIncome(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	brothel := openBrothel(p, testNow.Add(-90*time.Minute))
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(brothel, nil)
	f.uow.Brothels.On("Update", mock.Anything, brothel).Return(nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	player, out, err := svc.CollectIncome(ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(150), out.Collected)
	assert.Equal(t, int64(650), player.Cash)
	assert.Equal(t, int64(150), brothel.TotalEarned)
}

func TestBrothelService_CollectIncome_NothingDue(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	f.lock(p)
	f.expectWrite()

	brothel := openBrothel(p, testNow.Add(-10*time.Second))
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(brothel, nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	_, out, err := svc.CollectIncome(ctx, p.ID)

	require.NoError(t, err)
	assert.Zero(t, out.Collected)
	assert.True(t, brothel.LastCollection.Equal(testNow.Add(-10*time.Second)))
	f.uow.Brothels.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBrothelService_UpgradeSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	p.Level = 5
	p.Cash = 12_000
	f.lock(p)
	f.expectWrite()

	brothel := openBrothel(p, testNow)
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(brothel, nil)
	f.uow.Brothels.On("Update", mock.Anything, brothel).Return(nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	player, out, err := svc.UpgradeSlots(ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(10_000), out.CashSpent)
	assert.Equal(t, int64(2_000), player.Cash)
	assert.Equal(t, 2, brothel.AdditionalSlots)
	assert.Equal(t, int64(20_000), brothel.SlotsUpgradeCost)
}

func TestBrothelService_UpgradeSlots_BelowLevel(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	p.Cash = 12_000
	f.lock(p)
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(openBrothel(p, testNow), nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	_, _, err := svc.UpgradeSlots(ctx, p.ID)

	assert.ErrorIs(t, err, game.ErrBelowLevelRequirement)
}

func TestBrothelService_UpgradeSlots_AtMaximum(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := testPlayer()
	p.Level = 30
	p.Cash = 1_000_000
	f.lock(p)

	brothel := openBrothel(p, testNow)
	brothel.AdditionalSlots = game.BrothelMaxSlots - brothel.WorkerSlots
	f.uow.Brothels.On("Get", mock.Anything, p.ID).Return(brothel, nil)

	svc := NewBrothelService(f.factory, testOptions(nil))
	_, _, err := svc.UpgradeSlots(ctx, p.ID)

	assert.ErrorIs(t, err, game.ErrCapacityExceeded)
}
