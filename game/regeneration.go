package game

import (
	"time"

	"thelife/models"
)

const (
	TicketsPerHour    = 20
	DailyBonusTickets = 10
	DailyBonusAfter   = 24 * time.Hour
	StreakResetAfter  = 48 * time.Hour
)

var ticketRefill = Accrual{Rate: TicketsPerHour, Period: time.Hour, WholePeriods: true}

// Refresh catches a player up on ticket refill and the daily login bonus.
// It reports whether anything changed; a second call with the same now never does.
func Refresh(p *models.Player, now time.Time) bool {
	changed := false

	// the refill clock only moves when tickets are credited, so hours spent
	// at a full tank count toward the next refill
	if p.Tickets < p.MaxTickets && ticketRefill.Periods(p.LastTicketRefill, now) >= 1 {
		p.Tickets = CapAdd(p.Tickets, int(ticketRefill.Due(p.LastTicketRefill, now)), p.MaxTickets)
		p.LastTicketRefill = now
		changed = true
	}

	if since := now.Sub(p.LastDailyBonus); since >= DailyBonusAfter {
		p.Tickets = CapAdd(p.Tickets, DailyBonusTickets, p.MaxTickets)
		if since >= StreakResetAfter {
			p.ConsecutiveLogins = 1
		} else {
			p.ConsecutiveLogins++
		}
		p.LastDailyBonus = now
		changed = true
	}

	return changed
}

// NextTicketRefill is how long until the next hourly ticket credit
func NextTicketRefill(p *models.Player, now time.Time) time.Duration {
	if p.Tickets >= p.MaxTickets {
		return 0
	}
	return ticketRefill.Until(p.LastTicketRefill, now)
}
