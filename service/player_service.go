package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"thelife/game"
	"thelife/models"
)

const defaultHistoryLimit = 50

type playerService struct {
	runner *actionRunner
}

// NewPlayerService creates a new player service
func NewPlayerService(uowFactory UnitOfWorkFactory, opts Options) PlayerService {
	return &playerService{
		runner: newActionRunner(uowFactory, opts),
	}
}

func (s *playerService) GetState(ctx context.Context, playerID uuid.UUID) (*PlayerState, error) {
	state := &PlayerState{}

	a := action{name: "get_state", playerID: playerID, policy: game.AllowAny, readOnly: true}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		inventory, err := sc.uow.InventoryRepository().List(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to list inventory: %w", err)
		}

		brothel, err := sc.uow.BrothelRepository().Get(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to get brothel: %w", err)
		}

		state.Status = game.StatusOf(sc.player, sc.now)
		state.NextTicketIn = game.NextTicketRefill(sc.player, sc.now)
		state.Inventory = inventory
		state.BusinessSlots = game.BusinessSlots(sc.player.Level)
		if brothel != nil {
			state.HasBrothel = true
			state.PendingBrothel = game.PendingIncome(brothel, sc.now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	state.Player = player
	return state, nil
}

func (s *playerService) DepositBank(ctx context.Context, playerID uuid.UUID, amount int64) (*models.Player, *models.BankOutcome, error) {
	a := action{name: "deposit_bank", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBankDeposit}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		return game.Deposit(sc.player, amount)
	})
	if err != nil {
		return player, nil, err
	}
	return player, &models.BankOutcome{Amount: amount}, nil
}

func (s *playerService) WithdrawBank(ctx context.Context, playerID uuid.UUID, amount int64) (*models.Player, *models.BankOutcome, error) {
	a := action{name: "withdraw_bank", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBankWithdraw}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		return game.Withdraw(sc.player, amount)
	})
	if err != nil {
		return player, nil, err
	}
	return player, &models.BankOutcome{Amount: amount}, nil
}

func (s *playerService) LedgerHistory(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.LedgerHistory, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultHistoryLimit
	}

	var history []*models.LedgerHistory
	a := action{name: "ledger_history", playerID: playerID, policy: game.AllowAny, readOnly: true}
	_, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		var err error
		history, err = sc.uow.LedgerRepository().GetByPlayer(ctx, playerID, limit)
		if err != nil {
			return fmt.Errorf("failed to get ledger history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}
