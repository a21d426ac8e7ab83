package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"thelife/models"
)

// Starting stats for a lazily provisioned player
const (
	StartingLevel   = 1
	StartingHP      = 100
	StartingTickets = 100
	StartingStat    = 10
)

// NewPlayer builds the starting record for a player seen for the first time
func NewPlayer(id uuid.UUID, startingCash int64, now time.Time) *models.Player {
	return &models.Player{
		ID:                id,
		Level:             StartingLevel,
		HP:                StartingHP,
		MaxHP:             StartingHP,
		Tickets:           StartingTickets,
		MaxTickets:        StartingTickets,
		Cash:              startingCash,
		ConsecutiveLogins: 1,
		LastDailyBonus:    now,
		LastTicketRefill:  now,
		Strength:          StartingStat,
		Defense:           StartingStat,
		Intelligence:      StartingStat,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Spend deducts cash, failing with ErrInsufficientFunds
func Spend(p *models.Player, amount int64) error {
	if p.Cash < amount {
		return fmt.Errorf("%w: need $%d, have $%d", ErrInsufficientFunds, amount, p.Cash)
	}
	p.Cash -= amount
	return nil
}

// SpendTickets deducts tickets, failing with ErrInsufficientResource
func SpendTickets(p *models.Player, n int) error {
	if p.Tickets < n {
		return fmt.Errorf("%w: need %d tickets, have %d", ErrInsufficientResource, n, p.Tickets)
	}
	p.Tickets -= n
	return nil
}

// RequireLevel fails with ErrBelowLevelRequirement when p is under min
func RequireLevel(p *models.Player, min int) error {
	if p.Level < min {
		return fmt.Errorf("%w: need level %d, have %d", ErrBelowLevelRequirement, min, p.Level)
	}
	return nil
}

// Deposit moves cash into the bank
func Deposit(p *models.Player, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidInput, amount)
	}
	if err := Spend(p, amount); err != nil {
		return err
	}
	p.BankBalance += amount
	return nil
}

// Withdraw moves bank balance into cash
func Withdraw(p *models.Player, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidInput, amount)
	}
	if p.BankBalance < amount {
		return fmt.Errorf("%w: need $%d in the bank, have $%d", ErrInsufficientFunds, amount, p.BankBalance)
	}
	p.BankBalance -= amount
	p.Cash += amount
	return nil
}
