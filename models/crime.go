package models

import (
	"time"

	"github.com/google/uuid"
)

// CrimeHistory is one recorded crime attempt
type CrimeHistory struct {
	ID          int64     `db:"id" json:"id"`
	PlayerID    uuid.UUID `db:"player_id" json:"-"`
	CrimeID     int64     `db:"crime_id" json:"crime_id"`
	Success     bool      `db:"success" json:"success"`
	Reward      int64     `db:"reward" json:"reward"`
	XPGained    int64     `db:"xp_gained" json:"xp_gained"`
	JailMinutes int       `db:"jail_minutes" json:"jail_minutes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CrimeOutcome describes a resolved crime attempt
type CrimeOutcome struct {
	CrimeID      int64   `json:"crime_id"`
	Success      bool    `json:"success"`
	Chance       float64 `json:"chance"`
	Reward       int64   `json:"reward"`
	XP           int64   `json:"xp"`
	JailMinutes  int     `json:"jail_minutes,omitempty"`
	HPLost       int     `json:"hp_lost,omitempty"`
	LevelsGained int     `json:"levels_gained,omitempty"`
}

// CrimeOption is a catalog crime with the player's current success chance
type CrimeOption struct {
	Crime  *CrimeDefinition `json:"crime"`
	Chance float64          `json:"chance"`
}
