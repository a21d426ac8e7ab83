package models

import "github.com/google/uuid"

// InventoryStack is the quantity of one item held by a player
type InventoryStack struct {
	PlayerID uuid.UUID `db:"player_id" json:"-"`
	ItemID   int64     `db:"item_id" json:"item_id"`
	Name     string    `db:"name" json:"name"`
	Kind     ItemKind  `db:"kind" json:"kind"`
	Quantity int64     `db:"quantity" json:"quantity"`
}
