package game

import (
	"time"

	"thelife/models"
)

const (
	BrothelOpenCost         = 25000
	BrothelSlotUpgradeCost  = 10000
	BrothelBaseSlotsBonus   = 2
	BrothelSlotStep         = 2
	BrothelMaxSlots         = 50
	BrothelSlotUpgradeLevel = 5
)

// NewBrothel opens a brothel sized for the player's level
func NewBrothel(p *models.Player, now time.Time) *models.BrothelState {
	return &models.BrothelState{
		PlayerID:         p.ID,
		WorkerSlots:      p.Level + BrothelBaseSlotsBonus,
		LastCollection:   now,
		SlotsUpgradeCost: BrothelSlotUpgradeCost,
		CreatedAt:        now,
	}
}

func brothelIncome(b *models.BrothelState) Accrual {
	return Accrual{Rate: float64(b.IncomePerHour), Period: time.Hour}
}

// PendingIncome is the income accrued since the last collection
func PendingIncome(b *models.BrothelState, now time.Time) int64 {
	return brothelIncome(b).Due(b.LastCollection, now)
}

// CollectIncome credits accrued income to p. Nothing moves when it is zero.
func CollectIncome(p *models.Player, b *models.BrothelState, now time.Time) int64 {
	income := PendingIncome(b, now)
	if income <= 0 {
		return 0
	}
	p.Cash += income
	b.TotalEarned += income
	b.LastCollection = now
	return income
}

// SettleIncome pays out accrued income and restarts accrual at now, so that
// a change to income_per_hour only prices time after the change
func SettleIncome(p *models.Player, b *models.BrothelState, now time.Time) int64 {
	income := CollectIncome(p, b, now)
	if now.After(b.LastCollection) {
		b.LastCollection = now
	}
	return income
}

// WorkerRefund is what selling a hired worker returns
func WorkerRefund(w *models.WorkerDefinition) int64 {
	return w.HireCost / 3
}

// UpgradedSlots is the purchased-slot count after one more upgrade
func UpgradedSlots(b *models.BrothelState) int {
	added := BrothelSlotStep
	if room := BrothelMaxSlots - b.TotalSlots(); added > room {
		added = room
	}
	return b.AdditionalSlots + added
}
