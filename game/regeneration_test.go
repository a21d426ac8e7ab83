package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefresh_IdempotentWithinSameInstant(t *testing.T) {
	p := testPlayer()
	p.Tickets = 10
	p.LastTicketRefill = testNow.Add(-3 * time.Hour)
	p.LastDailyBonus = testNow.Add(-30 * time.Hour)

	assert.True(t, Refresh(p, testNow))
	after := *p

	assert.False(t, Refresh(p, testNow))
	assert.Equal(t, after, *p)
}

func TestRefresh_TwoHoursCreditsUpToMax(t *testing.T) {
	tests := []struct {
		name    string
		tickets int
		want    int
	}{
		{"forty below max", 60, 100},
		{"ten below max", 90, 100},
		{"far below max", 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlayer()
			p.Tickets = tt.tickets
			p.LastTicketRefill = testNow.Add(-2 * time.Hour)
			p.LastDailyBonus = testNow

			Refresh(p, testNow)

			assert.Equal(t, tt.want, p.Tickets)
			assert.Equal(t, testNow, p.LastTicketRefill)
		})
	}
}

func TestRefresh_UnderAnHourDoesNothing(t *testing.T) {
	p := testPlayer()
	p.Tickets = 5
	p.LastTicketRefill = testNow.Add(-59 * time.Minute)
	p.LastDailyBonus = testNow

	assert.False(t, Refresh(p, testNow))
	assert.Equal(t, 5, p.Tickets)
}

func TestRefresh_FullTankKeepsRefillClock(t *testing.T) {
	p := testPlayer()
	last := testNow.Add(-3 * time.Hour)
	p.LastTicketRefill = last
	p.LastDailyBonus = testNow

	assert.False(t, Refresh(p, testNow))
	assert.Equal(t, p.MaxTickets, p.Tickets)
	assert.True(t, p.LastTicketRefill.Equal(last))

	// three elapsed hours are worth 60 tickets, capped by the 40 spent
	p.Tickets -= 40
	assert.True(t, Refresh(p, testNow))
	assert.Equal(t, p.MaxTickets, p.Tickets)
	assert.True(t, p.LastTicketRefill.Equal(testNow))
}

func TestRefresh_DailyBonus(t *testing.T) {
	tests := []struct {
		name       string
		sinceBonus time.Duration
		streak     int
		wantStreak int
		wantBonus  bool
	}{
		{"too early", 23 * time.Hour, 3, 3, false},
		{"next day continues streak", 25 * time.Hour, 3, 4, true},
		{"two days resets streak", 49 * time.Hour, 7, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlayer()
			p.Tickets = 50
			p.LastTicketRefill = testNow
			p.LastDailyBonus = testNow.Add(-tt.sinceBonus)
			p.ConsecutiveLogins = tt.streak

			Refresh(p, testNow)

			assert.Equal(t, tt.wantStreak, p.ConsecutiveLogins)
			if tt.wantBonus {
				assert.Equal(t, 50+DailyBonusTickets, p.Tickets)
				assert.Equal(t, testNow, p.LastDailyBonus)
			} else {
				assert.Equal(t, 50, p.Tickets)
			}
		})
	}
}
