package models

import (
	"time"

	"github.com/google/uuid"
)

// Player is the canonical economic and vital record of one player
type Player struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	Level               int        `db:"level" json:"level"`
	XP                  int64      `db:"xp" json:"xp"`
	HP                  int        `db:"hp" json:"hp"`
	MaxHP               int        `db:"max_hp" json:"max_hp"`
	Tickets             int        `db:"tickets" json:"tickets"`
	MaxTickets          int        `db:"max_tickets" json:"max_tickets"`
	Cash                int64      `db:"cash" json:"cash"`
	BankBalance         int64      `db:"bank_balance" json:"bank_balance"`
	JailUntil           *time.Time `db:"jail_until" json:"jail_until,omitempty"`
	HospitalUntil       *time.Time `db:"hospital_until" json:"hospital_until,omitempty"`
	ConsecutiveLogins   int        `db:"consecutive_logins" json:"consecutive_logins"`
	LastDailyBonus      time.Time  `db:"last_daily_bonus" json:"last_daily_bonus"`
	LastTicketRefill    time.Time  `db:"last_ticket_refill" json:"last_ticket_refill"`
	PvPWins             int        `db:"pvp_wins" json:"pvp_wins"`
	PvPLosses           int        `db:"pvp_losses" json:"pvp_losses"`
	TotalRobberies      int        `db:"total_robberies" json:"total_robberies"`
	SuccessfulRobberies int        `db:"successful_robberies" json:"successful_robberies"`
	Strength            int        `db:"strength" json:"strength"`
	Defense             int        `db:"defense" json:"defense"`
	Intelligence        int        `db:"intelligence" json:"intelligence"`
	Version             int64      `db:"version" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Wealth is cash plus bank balance
func (p *Player) Wealth() int64 {
	return p.Cash + p.BankBalance
}

// Clone returns a deep copy, including the confinement timestamps
func (p *Player) Clone() *Player {
	c := *p
	if p.JailUntil != nil {
		t := *p.JailUntil
		c.JailUntil = &t
	}
	if p.HospitalUntil != nil {
		t := *p.HospitalUntil
		c.HospitalUntil = &t
	}
	return &c
}
