package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"thelife/database"
	"thelife/events"
	"thelife/game"
	"thelife/models"
	"thelife/observability"
)

// Options tune how actions are run
type Options struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	StartingCash int64
	Clock        game.Clock
	Random       game.Random
}

// DefaultOptions are the settings used when none are configured
func DefaultOptions() Options {
	return Options{
		MaxAttempts:  5,
		BaseDelay:    20 * time.Millisecond,
		StartingCash: 500,
		Clock:        game.SystemClock{},
		Random:       game.SystemRandom{},
	}
}

const maxRetryDelay = time.Second

// action describes one player-initiated call
type action struct {
	name     string
	playerID uuid.UUID
	// targetID is the second ledger of a two-player action
	targetID  uuid.UUID
	twoPlayer bool
	policy    game.Policy
	change    models.ChangeType
	readOnly  bool
}

// scope is what an action body works with inside the transaction
type scope struct {
	uow    UnitOfWork
	now    time.Time
	rng    game.Random
	player *models.Player
	target *models.Player
	meta   map[string]any
}

// tracked is a locked player and its state before the action body ran
type tracked struct {
	player  *models.Player
	before  *models.Player
	dirty   bool
	created bool
}

// actionRunner executes actions as serializable transactions, retrying on
// conflicting writes
type actionRunner struct {
	uowFactory UnitOfWorkFactory
	opts       Options
}

func newActionRunner(uowFactory UnitOfWorkFactory, opts Options) *actionRunner {
	defaults := DefaultOptions()
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.Clock == nil {
		opts.Clock = defaults.Clock
	}
	if opts.Random == nil {
		opts.Random = defaults.Random
	}
	return &actionRunner{uowFactory: uowFactory, opts: opts}
}

// run executes body for a, re-reading and re-validating on every attempt.
// It returns the acting player as committed. When the action is rejected
// the player comes back as loaded and caught up, next to the error.
func (r *actionRunner) run(ctx context.Context, a action, body func(ctx context.Context, sc *scope) error) (*models.Player, error) {
	started := time.Now()
	delay := r.opts.BaseDelay

	var err error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		var player *models.Player
		player, err = r.attempt(ctx, a, body)
		if !isConflict(err) {
			observability.ObserveAction(a.name, string(game.KindOf(err)), started)
			return player, err
		}
		if attempt == r.opts.MaxAttempts {
			break
		}

		observability.TxRetries.WithLabelValues(a.name).Inc()
		log.WithFields(log.Fields{
			"action":   a.name,
			"playerID": a.playerID,
			"attempt":  attempt,
			"error":    err,
		}).Warn("Retrying action after conflicting write")

		if sleepErr := sleepWithContext(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
		if delay < maxRetryDelay {
			delay *= 2
		}
	}

	observability.ObserveAction(a.name, string(game.KindConcurrentModification), started)
	if !errors.Is(err, game.ErrConcurrentModification) {
		err = fmt.Errorf("%w: %v", game.ErrConcurrentModification, err)
	}
	return nil, fmt.Errorf("%s gave up after %d attempts: %w", a.name, r.opts.MaxAttempts, err)
}

func (r *actionRunner) attempt(ctx context.Context, a action, body func(ctx context.Context, sc *scope) error) (*models.Player, error) {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := r.opts.Clock.Now()
	players, err := r.load(ctx, uow, a, now)
	if err != nil {
		return snapshot(players), err
	}

	acting := players[0]
	if err := game.Gate(acting.player, now, a.policy); err != nil {
		return snapshot(players), err
	}

	sc := &scope{
		uow:    uow,
		now:    now,
		rng:    r.opts.Random,
		player: acting.player,
		meta:   map[string]any{},
	}
	if a.twoPlayer {
		if len(players) < 2 {
			return nil, fmt.Errorf("%s needs a second player", a.name)
		}
		sc.target = players[1].player
	}

	if err := body(ctx, sc); err != nil {
		return snapshot(players), err
	}

	for _, t := range players {
		if a.readOnly && !t.dirty {
			continue
		}
		if err := uow.PlayerRepository().Save(ctx, t.player); err != nil {
			return nil, fmt.Errorf("failed to save player %s: %w", t.player.ID, err)
		}
		if err := r.recordChanges(ctx, uow, a, t, sc.now, sc.meta); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return acting.player.Clone(), nil
}

// load provisions the acting player if needed, locks every player the action
// touches and catches them up to now
func (r *actionRunner) load(ctx context.Context, uow UnitOfWork, a action, now time.Time) ([]*tracked, error) {
	created, err := uow.PlayerRepository().Provision(ctx, game.NewPlayer(a.playerID, r.opts.StartingCash, now))
	if err != nil {
		return nil, fmt.Errorf("failed to provision player %s: %w", a.playerID, err)
	}

	ids := []uuid.UUID{a.playerID}
	if a.twoPlayer {
		switch a.targetID {
		case uuid.Nil:
			return nil, fmt.Errorf("%w: no target player given", game.ErrInvalidInput)
		case a.playerID:
			return nil, fmt.Errorf("%w: cannot target yourself", game.ErrInvalidInput)
		}
		ids = append(ids, a.targetID)
	}

	locked, err := uow.PlayerRepository().LockForUpdate(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to lock players: %w", err)
	}

	out := make([]*tracked, 0, len(ids))
	for _, id := range ids {
		p, ok := locked[id]
		if !ok {
			// out still holds the acting player when only the target is missing
			return out, fmt.Errorf("%w: player %s", game.ErrNotFound, id)
		}
		refreshed := game.Refresh(p, now)
		cleared := game.ClearExpired(p, now)
		out = append(out, &tracked{
			player:  p,
			before:  p.Clone(),
			dirty:   refreshed || cleared || (created && id == a.playerID),
			created: created && id == a.playerID,
		})
	}

	if created {
		if err := r.recordProvisioned(ctx, uow, out[0].player); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (r *actionRunner) recordProvisioned(ctx context.Context, uow UnitOfWork, p *models.Player) error {
	history := &models.LedgerHistory{
		PlayerID:   p.ID,
		CashAfter:  p.Cash,
		BankAfter:  p.BankBalance,
		ChangeType: models.ChangeTypeInitial,
		CreatedAt:  p.CreatedAt,
	}
	if err := uow.LedgerRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record starting balance: %w", err)
	}
	uow.EventBus().Publish(events.PlayerProvisionedEvent{PlayerID: p.ID, StartingCash: p.Cash})
	return nil
}

// recordChanges writes the ledger entry for any cash or bank movement and
// queues events for level-ups and new confinements
func (r *actionRunner) recordChanges(ctx context.Context, uow UnitOfWork, a action, t *tracked, now time.Time, meta map[string]any) error {
	before, after := t.before, t.player
	bus := uow.EventBus()

	if before.Cash != after.Cash || before.BankBalance != after.BankBalance {
		history := &models.LedgerHistory{
			PlayerID:   after.ID,
			CashBefore: before.Cash,
			CashAfter:  after.Cash,
			BankBefore: before.BankBalance,
			BankAfter:  after.BankBalance,
			ChangeType: a.change,
			Metadata:   meta,
			CreatedAt:  now,
		}
		if err := uow.LedgerRepository().Record(ctx, history); err != nil {
			return fmt.Errorf("failed to record ledger history: %w", err)
		}
		bus.Publish(events.BalanceChangeEvent{
			PlayerID:   after.ID,
			CashBefore: before.Cash,
			CashAfter:  after.Cash,
			BankBefore: before.BankBalance,
			BankAfter:  after.BankBalance,
			ChangeType: a.change,
		})
	}

	if after.Level > before.Level {
		bus.Publish(events.LevelUpEvent{PlayerID: after.ID, OldLevel: before.Level, NewLevel: after.Level})
	}

	if holdStarted(before.JailUntil, after.JailUntil) {
		bus.Publish(events.ConfinementEvent{PlayerID: after.ID, State: string(game.StateJailed), Until: *after.JailUntil, Cause: a.name})
	}
	if holdStarted(before.HospitalUntil, after.HospitalUntil) {
		bus.Publish(events.ConfinementEvent{PlayerID: after.ID, State: string(game.StateHospitalized), Until: *after.HospitalUntil, Cause: a.name})
	}

	return nil
}

// snapshot is the acting player as loaded and caught up, before the action
// body touched it. The caller gets it back with a rejection.
func snapshot(players []*tracked) *models.Player {
	if len(players) == 0 {
		return nil
	}
	return players[0].before.Clone()
}

func holdStarted(before, after *time.Time) bool {
	if after == nil {
		return false
	}
	return before == nil || after.After(*before)
}

func isConflict(err error) bool {
	return errors.Is(err, game.ErrConcurrentModification) || database.IsSerializationFailure(err)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
