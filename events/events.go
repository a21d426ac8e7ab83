package events

import (
	"time"

	"github.com/google/uuid"

	"thelife/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypePlayerProvisioned EventType = "player_provisioned"
	EventTypePlayerAttacked    EventType = "player_attacked"
	EventTypeLevelUp           EventType = "level_up"
	EventTypeConfinement       EventType = "confinement"
)

// AllEventTypes lists every event the core emits
var AllEventTypes = []EventType{
	EventTypeBalanceChange,
	EventTypePlayerProvisioned,
	EventTypePlayerAttacked,
	EventTypeLevelUp,
	EventTypeConfinement,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted whenever cash or bank balance moves
type BalanceChangeEvent struct {
	PlayerID   uuid.UUID         `json:"player_id"`
	CashBefore int64             `json:"cash_before"`
	CashAfter  int64             `json:"cash_after"`
	BankBefore int64             `json:"bank_before"`
	BankAfter  int64             `json:"bank_after"`
	ChangeType models.ChangeType `json:"change_type"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// PlayerProvisionedEvent is emitted the first time a player is seen
type PlayerProvisionedEvent struct {
	PlayerID     uuid.UUID `json:"player_id"`
	StartingCash int64     `json:"starting_cash"`
}

func (e PlayerProvisionedEvent) Type() EventType {
	return EventTypePlayerProvisioned
}

// PlayerAttackedEvent tells the defender's client about an attack
type PlayerAttackedEvent struct {
	AttackerID uuid.UUID `json:"attacker_id"`
	DefenderID uuid.UUID `json:"defender_id"`
	WinnerID   uuid.UUID `json:"winner_id"`
	CashStolen int64     `json:"cash_stolen"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e PlayerAttackedEvent) Type() EventType {
	return EventTypePlayerAttacked
}

// LevelUpEvent is emitted when xp carries a player past one or more levels
type LevelUpEvent struct {
	PlayerID uuid.UUID `json:"player_id"`
	OldLevel int       `json:"old_level"`
	NewLevel int       `json:"new_level"`
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// ConfinementEvent is emitted when a player enters jail or hospital
type ConfinementEvent struct {
	PlayerID uuid.UUID `json:"player_id"`
	State    string    `json:"state"`
	Until    time.Time `json:"until"`
	Cause    string    `json:"cause"`
}

func (e ConfinementEvent) Type() EventType {
	return EventTypeConfinement
}
