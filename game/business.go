package game

import (
	"math"
	"time"

	"thelife/models"
)

const (
	MaxBusinessSlots       = 7
	LevelsPerBusinessSlot  = 5
	MaxUpgradeLevel        = 10
	DefaultProductionTicks = 5
	upgradeGrowth          = 1.8
)

// BusinessSlots is how many businesses a player of this level may own
func BusinessSlots(level int) int {
	slots := 1 + level/LevelsPerBusinessSlot
	if slots > MaxBusinessSlots {
		return MaxBusinessSlots
	}
	return slots
}

// UpgradeCost is the price of raising a business from level to level+1
func UpgradeCost(purchasePrice int64, level int) int64 {
	base := float64(purchasePrice * 2)
	// nudge past float error on exact products such as 10000*1.8^2
	return int64(math.Floor(base*math.Pow(upgradeGrowth, float64(level-1)) + 1e-9))
}

// SaleRefund is what selling a business returns
func SaleRefund(purchasePrice int64) int64 {
	return purchasePrice / 3
}

// ProductionTicketCost falls back to the default when the catalog leaves it unset
func ProductionTicketCost(b *models.BusinessDefinition) int {
	if b.TicketCost <= 0 {
		return DefaultProductionTicks
	}
	return b.TicketCost
}

// ScaleReward applies the upgrade multipliers: items x(1+(l-1)*0.5), cash x(1+(l-1)*0.3)
func ScaleReward(r models.Reward, level int) models.Reward {
	if level < 1 {
		level = 1
	}
	switch r.Kind {
	case models.RewardKindItem:
		return models.ItemReward(r.ItemID, r.Quantity*int64(level+1)/2)
	default:
		return models.CashReward(r.Amount * int64(10+3*(level-1)) / 10)
	}
}

// NewProductionJob starts a run of b that completes after its duration
func NewProductionJob(p *models.Player, b *models.BusinessDefinition, now time.Time) *models.ProductionJob {
	return &models.ProductionJob{
		PlayerID:    p.ID,
		BusinessID:  b.ID,
		StartedAt:   now,
		CompletedAt: now.Add(time.Duration(b.DurationMinutes) * time.Minute),
		Reward:      b.BaseReward(),
	}
}

func productionClock(job *models.ProductionJob) Accrual {
	return Accrual{Rate: 1, Period: job.CompletedAt.Sub(job.StartedAt), WholePeriods: true}
}

// ProductionReady reports whether a job's run has finished
func ProductionReady(job *models.ProductionJob, now time.Time) bool {
	if !job.CompletedAt.After(job.StartedAt) {
		return !now.Before(job.CompletedAt)
	}
	return productionClock(job).Due(job.StartedAt, now) >= 1
}

// ProductionRemaining is the time left before a job can be collected
func ProductionRemaining(job *models.ProductionJob, now time.Time) time.Duration {
	if ProductionReady(job, now) {
		return 0
	}
	return productionClock(job).Until(job.StartedAt, now)
}
