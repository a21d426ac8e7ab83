package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnedBusiness is a business held by a player at an upgrade level
type OwnedBusiness struct {
	PlayerID     uuid.UUID `db:"player_id" json:"-"`
	BusinessID   int64     `db:"business_id" json:"business_id"`
	UpgradeLevel int       `db:"upgrade_level" json:"upgrade_level"`
	PurchasedAt  time.Time `db:"purchased_at" json:"purchased_at"`
}

// ProductionJob is the pending reward of one production run
type ProductionJob struct {
	PlayerID    uuid.UUID `db:"player_id" json:"-"`
	BusinessID  int64     `db:"business_id" json:"business_id"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
	Reward      Reward    `db:"-" json:"reward"`
	Collected   bool      `db:"collected" json:"collected"`
}

// BusinessView is an owned business together with its definition and job
type BusinessView struct {
	Business   *BusinessDefinition `json:"business"`
	Owned      *OwnedBusiness      `json:"owned"`
	Job        *ProductionJob      `json:"job,omitempty"`
	Ready      bool                `json:"ready"`
	ReadyIn    time.Duration       `json:"ready_in"`
	UpgradeFee int64               `json:"upgrade_fee"`
}

// PurchaseOutcome describes a completed business purchase
type PurchaseOutcome struct {
	BusinessID int64 `json:"business_id"`
	Price      int64 `json:"price"`
	SlotsUsed  int   `json:"slots_used"`
	SlotsTotal int   `json:"slots_total"`
}

// ProductionOutcome describes a started production run
type ProductionOutcome struct {
	Job        *ProductionJob `json:"job"`
	CashSpent  int64          `json:"cash_spent"`
	TicketCost int            `json:"ticket_cost"`
}

// CollectOutcome describes a collected production reward
type CollectOutcome struct {
	BusinessID int64  `json:"business_id"`
	Reward     Reward `json:"reward"`
}

// UpgradeOutcome describes a business upgrade
type UpgradeOutcome struct {
	BusinessID int64 `json:"business_id"`
	NewLevel   int   `json:"new_level"`
	Cost       int64 `json:"cost"`
}

// SaleOutcome describes a business sale
type SaleOutcome struct {
	BusinessID int64 `json:"business_id"`
	Refund     int64 `json:"refund"`
}
