package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"thelife/events"
	"thelife/game"
	"thelife/models"
)

type combatService struct {
	runner *actionRunner
}

// NewCombatService creates a new combat service
func NewCombatService(uowFactory UnitOfWorkFactory, opts Options) CombatService {
	return &combatService{
		runner: newActionRunner(uowFactory, opts),
	}
}

// Attack settles both ledgers in one transaction. Both rows are locked in id
// order, so two players attacking each other cannot deadlock.
func (s *combatService) Attack(ctx context.Context, attackerID, defenderID uuid.UUID) (*models.Player, *models.AttackOutcome, error) {
	if defenderID == uuid.Nil {
		return nil, nil, fmt.Errorf("%w: no defender given", game.ErrInvalidInput)
	}

	var out *models.AttackOutcome

	a := action{
		name:      "attack",
		playerID:  attackerID,
		targetID:  defenderID,
		twoPlayer: true,
		policy:    game.FreeOnly,
		change:    models.ChangeTypeCombat,
	}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		var err error
		out, err = game.ResolveAttack(sc.player, sc.target, sc.now, sc.rng)
		if err != nil {
			return err
		}

		winnerID := defenderID
		if out.Won {
			winnerID = attackerID
		}

		entry := &models.CombatLogEntry{
			AttackerID:    attackerID,
			DefenderID:    defenderID,
			WinnerID:      winnerID,
			CashStolen:    out.CashStolen,
			AttackerPower: out.AttackerPower,
			DefenderPower: out.DefenderPower,
			WinChance:     out.WinChance,
			CreatedAt:     sc.now,
		}
		if err := sc.uow.CombatLogRepository().Record(ctx, entry); err != nil {
			return fmt.Errorf("failed to record combat log: %w", err)
		}

		sc.uow.EventBus().Publish(events.PlayerAttackedEvent{
			AttackerID: attackerID,
			DefenderID: defenderID,
			WinnerID:   winnerID,
			CashStolen: out.CashStolen,
			OccurredAt: sc.now,
		})

		sc.meta["attacker_id"] = attackerID.String()
		sc.meta["defender_id"] = defenderID.String()
		sc.meta["won"] = out.Won
		return nil
	})
	if err != nil {
		return player, nil, err
	}

	log.WithFields(log.Fields{
		"attackerID": attackerID,
		"defenderID": defenderID,
		"won":        out.Won,
		"winChance":  out.WinChance,
		"stolen":     out.CashStolen,
	}).Info("Attack resolved")

	return player, out, nil
}
