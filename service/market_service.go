package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"thelife/game"
	"thelife/models"
)

type marketService struct {
	runner     *actionRunner
	uowFactory UnitOfWorkFactory
}

// NewMarketService creates a new market service
func NewMarketService(uowFactory UnitOfWorkFactory, opts Options) MarketService {
	return &marketService{
		runner:     newActionRunner(uowFactory, opts),
		uowFactory: uowFactory,
	}
}

func (s *marketService) SellStreet(ctx context.Context, playerID uuid.UUID, itemID, quantity int64) (*models.Player, *models.StreetSaleOutcome, error) {
	if quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: quantity must be positive, got %d", game.ErrInvalidInput, quantity)
	}

	var out *models.StreetSaleOutcome
	a := action{name: "sell_street", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeMarket}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		if err := sc.uow.InventoryRepository().Remove(ctx, playerID, itemID, quantity); err != nil {
			return err
		}

		out = game.ResolveStreetSale(sc.player, itemID, quantity, sc.now, sc.rng)
		sc.meta["channel"] = "street"
		sc.meta["item_id"] = itemID
		sc.meta["quantity"] = quantity
		return nil
	})
	if err != nil {
		return player, nil, err
	}

	if out.Busted {
		log.WithFields(log.Fields{
			"playerID": playerID,
			"itemID":   itemID,
			"quantity": quantity,
		}).Info("Street sale busted")
	}

	return player, out, nil
}

func (s *marketService) BuyStoreItem(ctx context.Context, playerID uuid.UUID, storeItemID int64) (*models.Player, *models.StorePurchaseOutcome, error) {
	var out *models.StorePurchaseOutcome

	a := action{name: "buy_store_item", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeMarket}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		item, err := sc.uow.CatalogRepository().GetStoreItem(ctx, storeItemID)
		if err != nil {
			return fmt.Errorf("failed to get store item: %w", err)
		}
		if item == nil {
			return fmt.Errorf("%w: store item %d", game.ErrNotFound, storeItemID)
		}

		out, err = game.BuyStoreItem(sc.player, item)
		if err != nil {
			return err
		}
		sc.meta["channel"] = "store"
		sc.meta["store_item_id"] = storeItemID
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, out, nil
}

func (s *marketService) ShipDock(ctx context.Context, playerID uuid.UUID, boatID, quantity int64) (*models.Player, *models.DockShipment, error) {
	if quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: quantity must be positive, got %d", game.ErrInvalidInput, quantity)
	}

	var shipment *models.DockShipment
	a := action{name: "ship_dock", playerID: playerID, policy: game.FreeOnly, change: models.ChangeTypeMarket}
	player, err := s.runner.run(ctx, a, func(ctx context.Context, sc *scope) error {
		boat, err := sc.uow.DockRepository().GetBoat(ctx, boatID)
		if err != nil {
			return fmt.Errorf("failed to get boat: %w", err)
		}
		if boat == nil {
			return fmt.Errorf("%w: boat %d", game.ErrNotFound, boatID)
		}
		if err := game.CheckBoat(boat, sc.now); err != nil {
			return err
		}

		if err := sc.uow.InventoryRepository().Remove(ctx, playerID, boat.ItemID, quantity); err != nil {
			return err
		}
		if err := sc.uow.DockRepository().ClaimSlot(ctx, boatID); err != nil {
			return err
		}

		shipment = &models.DockShipment{
			BoatID:    boatID,
			PlayerID:  playerID,
			ItemID:    boat.ItemID,
			Quantity:  quantity,
			Payout:    game.DockPayout(quantity),
			CreatedAt: sc.now,
		}
		if err := sc.uow.DockRepository().RecordShipment(ctx, shipment); err != nil {
			return fmt.Errorf("failed to record shipment: %w", err)
		}
		sc.player.Cash += shipment.Payout

		sc.meta["channel"] = "dock"
		sc.meta["boat_id"] = boatID
		sc.meta["quantity"] = quantity
		return nil
	})
	if err != nil {
		return player, nil, err
	}
	return player, shipment, nil
}

func (s *marketService) ListBoats(ctx context.Context) ([]*models.DockBoat, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	boats, err := uow.DockRepository().ListOpen(ctx, s.runner.opts.Clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list boats: %w", err)
	}
	return boats, nil
}
