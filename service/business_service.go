package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"thelife/game"
	"thelife/models"
)

type businessService struct {
	runner *actionRunner
}

// NewBusinessService creates a new business service
func NewBusinessService(uowFactory UnitOfWorkFactory, opts Options) BusinessService {
	return &businessService{
		runner: newActionRunner(uowFactory, opts),
	}
}

// ownedBusiness loads the catalog entry and the player's ownership of it
func ownedBusiness(ctx context.Context, sc *scope, businessID int64) (*models.BusinessDefinition, *models.OwnedBusiness, error) {
	business, err := sc.uow.CatalogRepository().GetBusiness(ctx, businessID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get business: %w", err)
	}
	if business == nil {
		return nil, nil, fmt.Errorf("%w: business %d", game.ErrNotFound, businessID)
	}

	owned, err := sc.uow.BusinessRepository().GetOwned(ctx, sc.player.ID, businessID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get owned business: %w", err)
	}
	if owned == nil {
		return business, nil, fmt.Errorf("%w: you do not own %s", game.ErrNotOwned, business.Name)
	}
	return business, owned, nil
}

func (s *businessService) PurchaseBusiness(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.PurchaseOutcome, error) {
	var out *models.PurchaseOutcome

	a := action{name: "purchase_business", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBusiness}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		business, err := sc.uow.CatalogRepository().GetBusiness(ctx, businessID)
		if err != nil {
			return fmt.Errorf("failed to get business: %w", err)
		}
		if business == nil {
			return fmt.Errorf("%w: business %d", game.ErrNotFound, businessID)
		}

		existing, err := sc.uow.BusinessRepository().GetOwned(ctx, playerID, businessID)
		if err != nil {
			return fmt.Errorf("failed to get owned business: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: you already own %s", game.ErrAlreadyExists, business.Name)
		}

		if err := game.RequireLevel(sc.player, business.MinLevel); err != nil {
			return err
		}

		count, err := sc.uow.BusinessRepository().CountOwned(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to count owned businesses: %w", err)
		}
		slots := game.BusinessSlots(sc.player.Level)
		if count >= slots {
			return fmt.Errorf("%w: all %d business slots are in use", game.ErrCapacityExceeded, slots)
		}

		if err := game.Spend(sc.player, business.PurchasePrice); err != nil {
			return err
		}

		owned := &models.OwnedBusiness{
			PlayerID:     playerID,
			BusinessID:   business.ID,
			UpgradeLevel: 1,
			PurchasedAt:  sc.now,
		}
		if err := sc.uow.BusinessRepository().CreateOwned(ctx, owned); err != nil {
			return fmt.Errorf("failed to create owned business: %w", err)
		}

		out = &models.PurchaseOutcome{
			BusinessID: business.ID,
			Price:      business.PurchasePrice,
			SlotsUsed:  count + 1,
			SlotsTotal: slots,
		}
		sc.meta["business_id"] = business.ID
		sc.meta["operation"] = "purchase"
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *businessService) StartProduction(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.ProductionOutcome, error) {
	var out *models.ProductionOutcome

	a := action{name: "start_production", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBusiness}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		business, _, err := ownedBusiness(ctx, sc, businessID)
		if err != nil {
			return err
		}

		job, err := sc.uow.BusinessRepository().GetJob(ctx, playerID, businessID)
		if err != nil {
			return fmt.Errorf("failed to get production job: %w", err)
		}
		if job != nil && !job.Collected {
			return fmt.Errorf("%w: %s already has a production run waiting", game.ErrAlreadyExists, business.Name)
		}

		tickets := game.ProductionTicketCost(business)
		if sc.player.Cash < business.ProductionCost {
			return fmt.Errorf("%w: need $%d, have $%d", game.ErrInsufficientFunds, business.ProductionCost, sc.player.Cash)
		}
		if err := game.SpendTickets(sc.player, tickets); err != nil {
			return err
		}
		sc.player.Cash -= business.ProductionCost

		job = game.NewProductionJob(sc.player, business, sc.now)
		if err := sc.uow.BusinessRepository().SaveJob(ctx, job); err != nil {
			return fmt.Errorf("failed to save production job: %w", err)
		}

		out = &models.ProductionOutcome{Job: job, CashSpent: business.ProductionCost, TicketCost: tickets}
		sc.meta["business_id"] = business.ID
		sc.meta["operation"] = "production"
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *businessService) CollectProduction(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.CollectOutcome, error) {
	var out *models.CollectOutcome

	a := action{name: "collect_production", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBusiness}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		business, owned, err := ownedBusiness(ctx, sc, businessID)
		if err != nil {
			return err
		}

		job, err := sc.uow.BusinessRepository().GetJob(ctx, playerID, businessID)
		if err != nil {
			return fmt.Errorf("failed to get production job: %w", err)
		}
		if job == nil || job.Collected {
			return fmt.Errorf("%w: %s has nothing to collect", game.ErrNotFound, business.Name)
		}
		if !game.ProductionReady(job, sc.now) {
			return fmt.Errorf("%w: %s finishes in %s", game.ErrNotReady, business.Name, game.ProductionRemaining(job, sc.now))
		}

		reward := game.ScaleReward(job.Reward, owned.UpgradeLevel)
		switch reward.Kind {
		case models.RewardKindItem:
			if err := sc.uow.InventoryRepository().Add(ctx, playerID, reward.ItemID, reward.Quantity); err != nil {
				return fmt.Errorf("failed to add production to inventory: %w", err)
			}
		default:
			sc.player.Cash += reward.Amount
		}

		if err := sc.uow.BusinessRepository().MarkCollected(ctx, playerID, businessID); err != nil {
			return fmt.Errorf("failed to mark production collected: %w", err)
		}

		out = &models.CollectOutcome{BusinessID: businessID, Reward: reward}
		sc.meta["business_id"] = businessID
		sc.meta["operation"] = "collect"
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *businessService) UpgradeBusiness(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.UpgradeOutcome, error) {
	var out *models.UpgradeOutcome

	a := action{name: "upgrade_business", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBusiness}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		business, owned, err := ownedBusiness(ctx, sc, businessID)
		if err != nil {
			return err
		}
		if owned.UpgradeLevel >= game.MaxUpgradeLevel {
			return fmt.Errorf("%w: %s is already at level %d", game.ErrCapacityExceeded, business.Name, game.MaxUpgradeLevel)
		}

		cost := game.UpgradeCost(business.PurchasePrice, owned.UpgradeLevel)
		if err := game.Spend(sc.player, cost); err != nil {
			return err
		}

		newLevel := owned.UpgradeLevel + 1
		if err := sc.uow.BusinessRepository().UpdateLevel(ctx, playerID, businessID, newLevel); err != nil {
			return fmt.Errorf("failed to upgrade business: %w", err)
		}

		out = &models.UpgradeOutcome{BusinessID: businessID, NewLevel: newLevel, Cost: cost}
		sc.meta["business_id"] = businessID
		sc.meta["operation"] = "upgrade"
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *businessService) SellBusiness(ctx context.Context, playerID uuid.UUID, businessID int64) (*models.Player, *models.SaleOutcome, error) {
	var out *models.SaleOutcome

	a := action{name: "sell_business", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeBusiness}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		business, _, err := ownedBusiness(ctx, sc, businessID)
		if err != nil {
			return err
		}

		if err := sc.uow.BusinessRepository().DeleteOwned(ctx, playerID, businessID); err != nil {
			return fmt.Errorf("failed to sell business: %w", err)
		}

		refund := game.SaleRefund(business.PurchasePrice)
		sc.player.Cash += refund

		out = &models.SaleOutcome{BusinessID: businessID, Refund: refund}
		sc.meta["business_id"] = businessID
		sc.meta["operation"] = "sell"
		return nil
	})
	if err != nil {
		return player, nil, err
	}

	log.WithFields(log.Fields{
		"playerID":   playerID,
		"businessID": businessID,
		"refund":     out.Refund,
	}).Info("Business sold")

	return player, out, nil
}

func (s *businessService) ListBusinesses(ctx context.Context, playerID uuid.UUID) ([]*models.BusinessView, error) {
	var views []*models.BusinessView

	a := action{name: "list_businesses", playerID: playerID, policy: game.AllowAny, readOnly: true}
	_, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		owned, err := sc.uow.BusinessRepository().ListOwned(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to list owned businesses: %w", err)
		}

		views = make([]*models.BusinessView, 0, len(owned))
		for _, o := range owned {
			business, err := sc.uow.CatalogRepository().GetBusiness(ctx, o.BusinessID)
			if err != nil {
				return fmt.Errorf("failed to get business %d: %w", o.BusinessID, err)
			}
			if business == nil {
				continue
			}

			job, err := sc.uow.BusinessRepository().GetJob(ctx, playerID, o.BusinessID)
			if err != nil {
				return fmt.Errorf("failed to get production job: %w", err)
			}

			view := &models.BusinessView{Business: business, Owned: o, Job: job}
			if o.UpgradeLevel < game.MaxUpgradeLevel {
				view.UpgradeFee = game.UpgradeCost(business.PurchasePrice, o.UpgradeLevel)
			}
			if job != nil && !job.Collected {
				view.Ready = game.ProductionReady(job, sc.now)
				view.ReadyIn = game.ProductionRemaining(job, sc.now)
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
