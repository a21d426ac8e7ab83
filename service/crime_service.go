package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"thelife/game"
	"thelife/models"
)

type crimeService struct {
	runner *actionRunner
}

// NewCrimeService creates a new crime service
func NewCrimeService(uowFactory UnitOfWorkFactory, opts Options) CrimeService {
	return &crimeService{
		runner: newActionRunner(uowFactory, opts),
	}
}

func (s *crimeService) AttemptCrime(ctx context.Context, playerID uuid.UUID, crimeID int64) (*models.Player, *models.CrimeOutcome, error) {
	var out *models.CrimeOutcome

	a := action{name: "attempt_crime", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeCrime}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		crime, err := sc.uow.CatalogRepository().GetCrime(ctx, crimeID)
		if err != nil {
			return fmt.Errorf("failed to get crime: %w", err)
		}
		if crime == nil {
			return fmt.Errorf("%w: crime %d", game.ErrNotFound, crimeID)
		}

		out, err = game.ResolveCrime(sc.player, crime, sc.now, sc.rng)
		if err != nil {
			return err
		}

		history := &models.CrimeHistory{
			PlayerID:    playerID,
			CrimeID:     crime.ID,
			Success:     out.Success,
			Reward:      out.Reward,
			XPGained:    out.XP,
			JailMinutes: out.JailMinutes,
			CreatedAt:   sc.now,
		}
		if err := sc.uow.CrimeHistoryRepository().Record(ctx, history); err != nil {
			return fmt.Errorf("failed to record crime history: %w", err)
		}

		sc.meta["crime_id"] = crime.ID
		sc.meta["success"] = out.Success
		return nil
	})
	if err != nil {
		return player, nil, err
	}

	log.WithFields(log.Fields{
		"playerID": playerID,
		"crimeID":  crimeID,
		"success":  out.Success,
		"chance":   out.Chance,
		"reward":   out.Reward,
	}).Debug("Crime attempted")

	return player, out, nil
}

func (s *crimeService) ListCrimes(ctx context.Context, playerID uuid.UUID) ([]*models.CrimeOption, error) {
	var options []*models.CrimeOption

	a := action{name: "list_crimes", playerID: playerID, policy: game.AllowAny, readOnly: true}
	_, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		crimes, err := sc.uow.CatalogRepository().ListCrimes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list crimes: %w", err)
		}
		options = make([]*models.CrimeOption, 0, len(crimes))
		for _, c := range crimes {
			options = append(options, &models.CrimeOption{Crime: c, Chance: game.CrimeChance(sc.player, c)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}
