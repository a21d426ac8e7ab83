package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"thelife/game"
	"thelife/models"
)

type brothelService struct {
	runner *actionRunner
}

// NewBrothelService creates a new brothel service
func NewBrothelService(uowFactory UnitOfWorkFactory, opts Options) BrothelService {
	return &brothelService{
		runner: newActionRunner(uowFactory, opts),
	}
}

func requireBrothel(ctx context.Context, sc *scope) (*models.BrothelState, error) {
	brothel, err := sc.uow.BrothelRepository().Get(ctx, sc.player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brothel: %w", err)
	}
	if brothel == nil {
		return nil, fmt.Errorf("%w: you do not have a brothel", game.ErrNotFound)
	}
	return brothel, nil
}

func (s *brothelService) OpenBrothel(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.BrothelOutcome, error) {
	var out *models.BrothelOutcome

	a := action{name: "open_brothel", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBrothel}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		existing, err := sc.uow.BrothelRepository().Get(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to get brothel: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: you already have a brothel", game.ErrAlreadyExists)
		}

		if err := game.Spend(sc.player, game.BrothelOpenCost); err != nil {
			return err
		}

		brothel := game.NewBrothel(sc.player, sc.now)
		if err := sc.uow.BrothelRepository().Create(ctx, brothel); err != nil {
			return fmt.Errorf("failed to create brothel: %w", err)
		}

		out = &models.BrothelOutcome{Brothel: brothel, CashSpent: game.BrothelOpenCost}
		sc.meta["operation"] = "open"
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *brothelService) HireWorker(ctx context.Context, playerID uuid.UUID, workerID int64) (*models.Player, *models.BrothelOutcome, error) {
	var out *models.BrothelOutcome

	a := action{name: "hire_worker", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBrothel}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		brothel, err := requireBrothel(ctx, sc)
		if err != nil {
			return err
		}

		worker, err := sc.uow.CatalogRepository().GetWorker(ctx, workerID)
		if err != nil {
			return fmt.Errorf("failed to get worker: %w", err)
		}
		if worker == nil {
			return fmt.Errorf("%w: worker %d", game.ErrNotFound, workerID)
		}

		if brothel.Workers >= brothel.TotalSlots() {
			return fmt.Errorf("%w: all %d worker slots are filled", game.ErrCapacityExceeded, brothel.TotalSlots())
		}
		if err := game.RequireLevel(sc.player, worker.MinLevel); err != nil {
			return err
		}
		if sc.player.Cash < worker.HireCost {
			return fmt.Errorf("%w: need $%d, have $%d", game.ErrInsufficientFunds, worker.HireCost, sc.player.Cash)
		}

		collected := game.SettleIncome(sc.player, brothel, sc.now)
		sc.player.Cash -= worker.HireCost
		brothel.Workers++
		brothel.IncomePerHour += worker.IncomePerHour

		hired := &models.HiredWorker{PlayerID: playerID, WorkerID: worker.ID, HiredAt: sc.now}
		if err := sc.uow.BrothelRepository().AddHired(ctx, hired); err != nil {
			return fmt.Errorf("failed to hire worker: %w", err)
		}
		if err := sc.uow.BrothelRepository().Update(ctx, brothel); err != nil {
			return fmt.Errorf("failed to update brothel: %w", err)
		}

		out = &models.BrothelOutcome{Brothel: brothel, Worker: hired, CashSpent: worker.HireCost, Collected: collected}
		sc.meta["operation"] = "hire"
		sc.meta["worker_id"] = worker.ID
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *brothelService) SellWorker(ctx context.Context, playerID uuid.UUID, hiredWorkerID int64) (*models.Player, *models.BrothelOutcome, error) {
	var out *models.BrothelOutcome

	a := action{name: "sell_worker", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBrothel}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		brothel, err := requireBrothel(ctx, sc)
		if err != nil {
			return err
		}

		hired, err := sc.uow.BrothelRepository().GetHired(ctx, hiredWorkerID)
		if err != nil {
			return fmt.Errorf("failed to get hired worker: %w", err)
		}
		if hired == nil {
			return fmt.Errorf("%w: hired worker %d", game.ErrNotFound, hiredWorkerID)
		}
		if hired.PlayerID != playerID {
			return fmt.Errorf("%w: worker %d works for someone else", game.ErrNotOwned, hiredWorkerID)
		}

		worker, err := sc.uow.CatalogRepository().GetWorker(ctx, hired.WorkerID)
		if err != nil {
			return fmt.Errorf("failed to get worker: %w", err)
		}
		if worker == nil {
			return fmt.Errorf("%w: worker %d", game.ErrNotFound, hired.WorkerID)
		}

		collected := game.SettleIncome(sc.player, brothel, sc.now)
		if err := sc.uow.BrothelRepository().DeleteHired(ctx, hired.ID); err != nil {
			return fmt.Errorf("failed to remove hired worker: %w", err)
		}

		brothel.Workers--
		brothel.IncomePerHour -= worker.IncomePerHour
		if brothel.IncomePerHour < 0 {
			brothel.IncomePerHour = 0
		}
		refund := game.WorkerRefund(worker)
		sc.player.Cash += refund

		if err := sc.uow.BrothelRepository().Update(ctx, brothel); err != nil {
			return fmt.Errorf("failed to update brothel: %w", err)
		}

		out = &models.BrothelOutcome{Brothel: brothel, Worker: hired, Refund: refund, Collected: collected}
		sc.meta["operation"] = "sell_worker"
		sc.meta["worker_id"] = worker.ID
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *brothelService) CollectIncome(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.BrothelOutcome, error) {
	var out *models.BrothelOutcome

	a := action{name: "collect_brothel", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBrothel}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		brothel, err := requireBrothel(ctx, sc)
		if err != nil {
			return err
		}

		income := game.CollectIncome(sc.player, brothel, sc.now)
		if income > 0 {
			if err := sc.uow.BrothelRepository().Update(ctx, brothel); err != nil {
				return fmt.Errorf("failed to update brothel: %w", err)
			}
		}

		out = &models.BrothelOutcome{Brothel: brothel, Collected: income}
		sc.meta["operation"] = "collect"
		return nil
	})
	if err != nil {
		return player, nil, err
	}

	if out.Collected > 0 {
		log.WithFields(log.Fields{
			"playerID": playerID,
			"income":   out.Collected,
		}).Debug("Brothel income collected")
	}

	return player, out, nil
}

func (s *brothelService) UpgradeSlots(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.BrothelOutcome, error) {
	var out *models.BrothelOutcome

	a := action{name: "upgrade_brothel_slots", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBrothel}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		brothel, err := requireBrothel(ctx, sc)
		if err != nil {
			return err
		}
		if err := game.RequireLevel(sc.player, game.BrothelSlotUpgradeLevel); err != nil {
			return err
		}
		if brothel.TotalSlots() >= game.BrothelMaxSlots {
			return fmt.Errorf("%w: brothel already has %d slots", game.ErrCapacityExceeded, game.BrothelMaxSlots)
		}

		cost := brothel.SlotsUpgradeCost
		if err := game.Spend(sc.player, cost); err != nil {
			return err
		}
		brothel.AdditionalSlots = game.UpgradedSlots(brothel)
		brothel.SlotsUpgradeCost *= 2

		if err := sc.uow.BrothelRepository().Update(ctx, brothel); err != nil {
			return fmt.Errorf("failed to update brothel: %w", err)
		}

		out = &models.BrothelOutcome{Brothel: brothel, CashSpent: cost}
		sc.meta["operation"] = "upgrade_slots"
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}
