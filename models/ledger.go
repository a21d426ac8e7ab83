package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType names the action that moved cash or bank balance
type ChangeType string

const (
	ChangeTypeInitial      ChangeType = "initial"
	ChangeTypeCrime        ChangeType = "crime"
	ChangeTypeBusiness     ChangeType = "business"
	ChangeTypeBrothel      ChangeType = "brothel"
	ChangeTypeCombat       ChangeType = "combat"
	ChangeTypeMarket       ChangeType = "market"
	ChangeTypeBribe        ChangeType = "bribe"
	ChangeTypeHospital     ChangeType = "hospital"
	ChangeTypeBankDeposit  ChangeType = "bank_deposit"
	ChangeTypeBankWithdraw ChangeType = "bank_withdraw"
)

// LedgerHistory is one recorded cash or bank movement
type LedgerHistory struct {
	ID         int64          `db:"id" json:"id"`
	PlayerID   uuid.UUID      `db:"player_id" json:"-"`
	CashBefore int64          `db:"cash_before" json:"cash_before"`
	CashAfter  int64          `db:"cash_after" json:"cash_after"`
	BankBefore int64          `db:"bank_before" json:"bank_before"`
	BankAfter  int64          `db:"bank_after" json:"bank_after"`
	ChangeType ChangeType     `db:"change_type" json:"change_type"`
	Metadata   map[string]any `db:"metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// EscapeOutcome describes a jail escape
type EscapeOutcome struct {
	Method           string `json:"method"`
	RemainingMinutes int    `json:"remaining_minutes"`
	Percentage       int    `json:"percentage,omitempty"`
	Amount           int64  `json:"amount,omitempty"`
	ItemID           int64  `json:"item_id,omitempty"`
}

// TreatmentOutcome describes a paid hospital treatment
type TreatmentOutcome struct {
	Treatment  string `json:"treatment"`
	Fee        int64  `json:"fee"`
	HPRestored int    `json:"hp_restored"`
	Discharged bool   `json:"discharged"`
}

// BankOutcome describes a bank transfer
type BankOutcome struct {
	Amount int64 `json:"amount"`
}
