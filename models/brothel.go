package models

import (
	"time"

	"github.com/google/uuid"
)

// BrothelState is the worker roster and income accrual state of a player's brothel
type BrothelState struct {
	PlayerID         uuid.UUID `db:"player_id" json:"-"`
	WorkerSlots      int       `db:"worker_slots" json:"worker_slots"`
	AdditionalSlots  int       `db:"additional_slots" json:"additional_slots"`
	Workers          int       `db:"workers" json:"workers"`
	IncomePerHour    int64     `db:"income_per_hour" json:"income_per_hour"`
	LastCollection   time.Time `db:"last_collection" json:"last_collection"`
	TotalEarned      int64     `db:"total_earned" json:"total_earned"`
	SlotsUpgradeCost int64     `db:"slots_upgrade_cost" json:"slots_upgrade_cost"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// TotalSlots is base plus purchased slots
func (b *BrothelState) TotalSlots() int {
	return b.WorkerSlots + b.AdditionalSlots
}

// HiredWorker is one worker on a player's roster
type HiredWorker struct {
	ID       int64     `db:"id" json:"id"`
	PlayerID uuid.UUID `db:"player_id" json:"-"`
	WorkerID int64     `db:"worker_id" json:"worker_id"`
	HiredAt  time.Time `db:"hired_at" json:"hired_at"`
}

// BrothelOutcome describes the result of a brothel action
type BrothelOutcome struct {
	Brothel   *BrothelState `json:"brothel"`
	Worker    *HiredWorker  `json:"worker,omitempty"`
	CashSpent int64         `json:"cash_spent,omitempty"`
	Collected int64         `json:"collected,omitempty"`
	Refund    int64         `json:"refund,omitempty"`
}
