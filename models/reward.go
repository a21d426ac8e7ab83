package models

// RewardKind tags which arm of a Reward is populated
type RewardKind string

const (
	RewardKindCash RewardKind = "cash"
	RewardKindItem RewardKind = "item"
)

// Reward is either a cash credit or an item grant, never both
type Reward struct {
	Kind     RewardKind `json:"kind"`
	Amount   int64      `json:"amount,omitempty"`
	ItemID   int64      `json:"item_id,omitempty"`
	Quantity int64      `json:"quantity,omitempty"`
}

// CashReward builds the cash arm of Reward
func CashReward(amount int64) Reward {
	return Reward{Kind: RewardKindCash, Amount: amount}
}

// ItemReward builds the item arm of Reward
func ItemReward(itemID, quantity int64) Reward {
	return Reward{Kind: RewardKindItem, ItemID: itemID, Quantity: quantity}
}
