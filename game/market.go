package game

import (
	"fmt"
	"time"

	"thelife/models"
)

const (
	StreetUnitPrice   = 150
	StreetUnitXP      = 10
	StreetBustChance  = 35
	StreetBustHPLoss  = 15
	StreetBustJailMin = 45
	DockUnitPrice     = 80
)

// ResolveStreetSale rolls a street sale of quantity units. The goods are gone
// either way; a bust costs hp and a jail sentence instead of paying out.
func ResolveStreetSale(p *models.Player, itemID, quantity int64, now time.Time, rng Random) *models.StreetSaleOutcome {
	out := &models.StreetSaleOutcome{ItemID: itemID, Quantity: quantity}
	if roll(rng) < StreetBustChance {
		out.Busted = true
		out.JailMinutes = StreetBustJailMin
		Jail(p, now, StreetBustJailMin)
		out.HPLost = Injure(p, now, StreetBustHPLoss)
		return out
	}
	out.Cash = quantity * StreetUnitPrice
	out.XP = quantity * StreetUnitXP
	p.Cash += out.Cash
	p.XP += out.XP
	out.LevelsGained = ApplyLevelUps(p)
	return out
}

// DockPayout is the zero-risk price for shipping quantity units
func DockPayout(quantity int64) int64 {
	return quantity * DockUnitPrice
}

// CheckBoat rejects departed or full boats. Capacity is checked before any
// inventory so a full boat always reports CapacityExceeded.
func CheckBoat(b *models.DockBoat, now time.Time) error {
	if !b.DepartureAt.After(now) {
		return fmt.Errorf("%w: boat %d has departed", ErrNotFound, b.ID)
	}
	if b.CurrentShipments >= b.MaxShipments {
		return fmt.Errorf("%w: boat %d is full (%d/%d)", ErrCapacityExceeded, b.ID, b.CurrentShipments, b.MaxShipments)
	}
	return nil
}

// BuyStoreItem charges for a restorative and applies its hp
func BuyStoreItem(p *models.Player, item *models.StoreItem) (*models.StorePurchaseOutcome, error) {
	if p.Cash < item.Price {
		return nil, fmt.Errorf("%w: need $%d, have $%d", ErrInsufficientFunds, item.Price, p.Cash)
	}
	p.Cash -= item.Price
	return &models.StorePurchaseOutcome{
		StoreItemID: item.ID,
		Price:       item.Price,
		HPRestored:  Heal(p, item.HPRestore),
	}, nil
}
