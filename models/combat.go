package models

import (
	"time"

	"github.com/google/uuid"
)

// CombatLogEntry is an append-only record of one attack
type CombatLogEntry struct {
	ID            int64     `db:"id" json:"id"`
	AttackerID    uuid.UUID `db:"attacker_id" json:"attacker_id"`
	DefenderID    uuid.UUID `db:"defender_id" json:"defender_id"`
	WinnerID      uuid.UUID `db:"winner_id" json:"winner_id"`
	CashStolen    int64     `db:"cash_stolen" json:"cash_stolen"`
	AttackerPower float64   `db:"attacker_power" json:"attacker_power"`
	DefenderPower float64   `db:"defender_power" json:"defender_power"`
	WinChance     float64   `db:"win_chance" json:"win_chance"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// AttackOutcome describes a resolved attack from the attacker's side
type AttackOutcome struct {
	DefenderID    uuid.UUID `json:"defender_id"`
	Won           bool      `json:"won"`
	CashStolen    int64     `json:"cash_stolen"`
	WinChance     float64   `json:"win_chance"`
	AttackerPower float64   `json:"attacker_power"`
	DefenderPower float64   `json:"defender_power"`
}
