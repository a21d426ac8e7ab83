package testutil

import (
	"time"

	"github.com/google/uuid"

	"thelife/models"
)

// CreateTestPlayer creates a starting player with a fresh id
func CreateTestPlayer(now time.Time) *models.Player {
	return CreateTestPlayerWithCash(now, 500)
}

// CreateTestPlayerWithCash creates a starting player holding cash
func CreateTestPlayerWithCash(now time.Time, cash int64) *models.Player {
	now = now.UTC().Truncate(time.Microsecond)
	return &models.Player{
		ID:                uuid.New(),
		Level:             1,
		HP:                100,
		MaxHP:             100,
		Tickets:           100,
		MaxTickets:        100,
		Cash:              cash,
		ConsecutiveLogins: 1,
		LastDailyBonus:    now,
		LastTicketRefill:  now,
		Strength:          10,
		Defense:           10,
		Intelligence:      10,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// CreateTestLedgerHistory creates a ledger entry moving cash from before to after
func CreateTestLedgerHistory(playerID uuid.UUID, before, after int64, changeType models.ChangeType) *models.LedgerHistory {
	return &models.LedgerHistory{
		PlayerID:   playerID,
		CashBefore: before,
		CashAfter:  after,
		ChangeType: changeType,
		Metadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now().UTC(),
	}
}
