package models

import (
	"time"

	"github.com/google/uuid"
)

// DockBoat is a scheduled boat accepting shipments of one item type
type DockBoat struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	ItemID           int64     `db:"item_id" json:"item_id"`
	MaxShipments     int       `db:"max_shipments" json:"max_shipments"`
	CurrentShipments int       `db:"current_shipments" json:"current_shipments"`
	DepartureAt      time.Time `db:"departure_at" json:"departure_at"`
}

// DockShipment is one shipment logged against a boat
type DockShipment struct {
	ID        int64     `db:"id" json:"id"`
	BoatID    int64     `db:"boat_id" json:"boat_id"`
	PlayerID  uuid.UUID `db:"player_id" json:"-"`
	ItemID    int64     `db:"item_id" json:"item_id"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	Payout    int64     `db:"payout" json:"payout"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StreetSaleOutcome describes a street resale
type StreetSaleOutcome struct {
	ItemID       int64 `json:"item_id"`
	Quantity     int64 `json:"quantity"`
	Busted       bool  `json:"busted"`
	Cash         int64 `json:"cash"`
	XP           int64 `json:"xp"`
	JailMinutes  int   `json:"jail_minutes,omitempty"`
	HPLost       int   `json:"hp_lost,omitempty"`
	LevelsGained int   `json:"levels_gained,omitempty"`
}

// StorePurchaseOutcome describes a store purchase
type StorePurchaseOutcome struct {
	StoreItemID int64 `json:"store_item_id"`
	Price       int64 `json:"price"`
	HPRestored  int   `json:"hp_restored"`
}
