package models

// ItemKind distinguishes what an inventory item can be used for
type ItemKind string

const (
	ItemKindGoods      ItemKind = "goods"
	ItemKindJailFree   ItemKind = "jail_free"
	ItemKindConsumable ItemKind = "consumable"
)

// Item is a catalog entry that can be held in an inventory
type Item struct {
	ID   int64    `db:"id" json:"id"`
	Name string   `db:"name" json:"name"`
	Kind ItemKind `db:"kind" json:"kind"`
}

// CrimeDefinition is an immutable crime catalog entry
type CrimeDefinition struct {
	ID               int64   `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	MinLevelRequired int     `db:"min_level_required" json:"min_level_required"`
	TicketCost       int     `db:"ticket_cost" json:"ticket_cost"`
	BaseReward       int64   `db:"base_reward" json:"base_reward"`
	MaxReward        int64   `db:"max_reward" json:"max_reward"`
	SuccessRate      float64 `db:"success_rate" json:"success_rate"`
	JailTimeMinutes  int     `db:"jail_time_minutes" json:"jail_time_minutes"`
	HPLossOnFail     int     `db:"hp_loss_on_fail" json:"hp_loss_on_fail"`
	XPReward         int64   `db:"xp_reward" json:"xp_reward"`
}

// BusinessDefinition is an immutable business catalog entry
type BusinessDefinition struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	MinLevel        int        `db:"min_level" json:"min_level"`
	PurchasePrice   int64      `db:"purchase_price" json:"purchase_price"`
	ProductionCost  int64      `db:"production_cost" json:"production_cost"`
	TicketCost      int        `db:"ticket_cost" json:"ticket_cost"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	RewardKind      RewardKind `db:"reward_kind" json:"reward_kind"`
	RewardItemID    *int64     `db:"reward_item_id" json:"reward_item_id,omitempty"`
	RewardQuantity  int64      `db:"reward_quantity" json:"reward_quantity"`
	CashProfit      int64      `db:"cash_profit" json:"cash_profit"`
}

// BaseReward is the level 1 production reward of the business
func (b *BusinessDefinition) BaseReward() Reward {
	if b.RewardKind == RewardKindItem && b.RewardItemID != nil {
		return ItemReward(*b.RewardItemID, b.RewardQuantity)
	}
	return CashReward(b.CashProfit)
}

// WorkerDefinition is an immutable brothel worker catalog entry
type WorkerDefinition struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	HireCost      int64  `db:"hire_cost" json:"hire_cost"`
	IncomePerHour int64  `db:"income_per_hour" json:"income_per_hour"`
	MinLevel      int    `db:"min_level" json:"min_level"`
}

// StoreItem is a fixed-price hp restorative
type StoreItem struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Price     int64  `db:"price" json:"price"`
	HPRestore int    `db:"hp_restore" json:"hp_restore"`
}
