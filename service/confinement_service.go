package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"thelife/game"
	"thelife/models"
)

type confinementService struct {
	runner *actionRunner
}

// NewConfinementService creates a new confinement service
func NewConfinementService(uowFactory UnitOfWorkFactory, opts Options) ConfinementService {
	return &confinementService{
		runner: newActionRunner(uowFactory, opts),
	}
}

func (s *confinementService) EscapeWithItem(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.EscapeOutcome, error) {
	out := &models.EscapeOutcome{Method: "item"}

	a := action{name: "escape_item", playerID: playerID, policy: game.AllowJailed}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		if game.StatusOf(sc.player, sc.now).State != game.StateJailed {
			return fmt.Errorf("%w: not in jail", game.ErrInvalidInput)
		}

		stack, err := sc.uow.InventoryRepository().FindByKind(ctx, playerID, models.ItemKindJailFree)
		if err != nil {
			return fmt.Errorf("failed to look up jail-free items: %w", err)
		}
		if stack == nil {
			return fmt.Errorf("%w: no jail-free item held", game.ErrNotFound)
		}

		if err := sc.uow.InventoryRepository().Remove(ctx, playerID, stack.ItemID, 1); err != nil {
			return fmt.Errorf("failed to consume %s: %w", stack.Name, err)
		}

		minutes, err := game.Release(sc.player, sc.now)
		if err != nil {
			return err
		}
		out.ItemID = stack.ItemID
		out.RemainingMinutes = minutes
		return nil
	})
	if err != nil {
		return player, nil, err
	}

	log.WithFields(log.Fields{
		"playerID": playerID,
		"minutes":  out.RemainingMinutes,
	}).Info("Player escaped jail with an item")

	return player, out, nil
}

func (s *confinementService) EscapeWithBribe(ctx context.Context, playerID uuid.UUID) (*models.Player, *models.EscapeOutcome, error) {
	out := &models.EscapeOutcome{Method: "bribe"}

	a := action{name: "escape_bribe", playerID: playerID, policy: game.AllowJailed, change: models.ChangeTypeBribe}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		quote, err := game.Bribe(sc.player, sc.now)
		if err != nil {
			return err
		}
		out.RemainingMinutes = quote.RemainingMinutes
		out.Percentage = quote.Percentage
		out.Amount = quote.Amount
		sc.meta["remaining_minutes"] = quote.RemainingMinutes
		sc.meta["percentage"] = quote.Percentage
		return nil
	})
	if err != nil {
		return player, nil, err
	}

	log.WithFields(log.Fields{
		"playerID":   playerID,
		"minutes":    out.RemainingMinutes,
		"percentage": out.Percentage,
		"amount":     out.Amount,
	}).Info("Player bribed their way out of jail")

	return player, out, nil
}

func (s *confinementService) PayHospitalFee(ctx context.Context, playerID uuid.UUID, treatment game.Treatment) (*models.Player, *models.TreatmentOutcome, error) {
	out := &models.TreatmentOutcome{Treatment: string(treatment)}

	a := action{name: "hospital_treatment", playerID: playerID, policy: game.AllowHospitalized, change: models.ChangeTypeHospital}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		result, err := game.Treat(sc.player, sc.now, treatment)
		if err != nil {
			return err
		}
		out.Fee = result.Fee
		out.HPRestored = result.HPRestored
		out.Discharged = result.Discharged
		sc.meta["treatment"] = string(treatment)
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}
