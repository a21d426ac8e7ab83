package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"thelife/events"
	"thelife/game"
	"thelife/models"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// scriptedRandom replays fixed draws in order
type scriptedRandom struct {
	floats []float64
	ints   []int64
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRandom) Int64N(n int64) int64 {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func testOptions(rng game.Random) Options {
	if rng == nil {
		rng = &scriptedRandom{}
	}
	return Options{
		MaxAttempts:  3,
		BaseDelay:    time.Millisecond,
		StartingCash: 500,
		Clock:        fixedClock{now: testNow},
		Random:       rng,
	}
}

// testPlayer is a settled player: no refill or bonus is due at testNow
func testPlayer() *models.Player {
	return game.NewPlayer(uuid.New(), 500, testNow.Add(-time.Minute))
}

func ptr(t time.Time) *time.Time {
	return &t
}

// fixture wires one mock unit of work behind a mock factory
type fixture struct {
	uow     *MockUnitOfWork
	factory *MockUnitOfWorkFactory
}

func newFixture() *fixture {
	f := &fixture{
		uow:     NewMockUnitOfWork(),
		factory: new(MockUnitOfWorkFactory),
	}
	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.uow.Players.On("Provision", mock.Anything, mock.Anything).Return(false, nil)
	return f
}

// lock makes LockForUpdate return players, requested in the given order
func (f *fixture) lock(players ...*models.Player) {
	ids := make([]uuid.UUID, 0, len(players))
	found := make(map[uuid.UUID]*models.Player, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
		found[p.ID] = p
	}
	f.uow.Players.On("LockForUpdate", mock.Anything, ids).Return(found, nil)
}

// expectWrite sets up a successful save, ledger entry and commit
func (f *fixture) expectWrite() {
	f.uow.Players.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.uow.Ledger.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.uow.Events.On("Publish", mock.Anything).Return().Maybe()
	f.uow.On("Commit").Return(nil)
}

func isBalanceChange(playerID uuid.UUID, cashBefore, cashAfter int64) interface{} {
	return mock.MatchedBy(func(e events.Event) bool {
		bc, ok := e.(events.BalanceChangeEvent)
		return ok && bc.PlayerID == playerID && bc.CashBefore == cashBefore && bc.CashAfter == cashAfter
	})
}
