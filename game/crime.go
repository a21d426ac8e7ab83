package game

import (
	"fmt"
	"math"
	"time"

	"thelife/models"
)

const (
	MinChance = 5
	MaxChance = 95

	levelBonusPerLevel   = 5
	levelPenaltyPerLevel = 10
	lowHPChancePenalty   = 30
	XPPerLevel           = 100
)

func hpRatio(p *models.Player) float64 {
	if p.MaxHP <= 0 {
		return 0
	}
	return float64(p.HP) / float64(p.MaxHP)
}

// CrimeChance is the success chance of c for p, clamped to [5,95]
func CrimeChance(p *models.Player, c *models.CrimeDefinition) float64 {
	chance := c.SuccessRate
	levelDelta := p.Level - c.MinLevelRequired
	if levelDelta >= 0 {
		chance += float64(levelDelta * levelBonusPerLevel)
	} else {
		chance += float64(levelDelta * levelPenaltyPerLevel)
	}
	if ratio := hpRatio(p); ratio < 0.5 {
		chance -= (0.5 - ratio) * lowHPChancePenalty
	}
	return clamp(chance, MinChance, MaxChance)
}

// JailMinutes is the sentence for failing c, lengthened for under-levelled
// or badly hurt players
func JailMinutes(p *models.Player, c *models.CrimeDefinition) int {
	levelDelta := p.Level - c.MinLevelRequired
	multiplier := 1 + math.Max(0, float64(-levelDelta))*0.5
	if ratio := hpRatio(p); ratio < 0.5 {
		multiplier += 0.5 - ratio
	}
	return int(math.Floor(float64(c.JailTimeMinutes) * multiplier))
}

// ResolveCrime rolls a crime attempt and applies it to p. Tickets are spent on
// success and failure alike.
func ResolveCrime(p *models.Player, c *models.CrimeDefinition, now time.Time, rng Random) (*models.CrimeOutcome, error) {
	if p.Tickets < c.TicketCost {
		return nil, fmt.Errorf("%w: need %d tickets, have %d", ErrInsufficientResource, c.TicketCost, p.Tickets)
	}

	out := &models.CrimeOutcome{CrimeID: c.ID, Chance: CrimeChance(p, c)}
	p.Tickets -= c.TicketCost
	p.TotalRobberies++

	if roll(rng) < out.Chance {
		out.Success = true
		out.Reward = between(rng, c.BaseReward, c.MaxReward)
		out.XP = c.XPReward
		p.Cash += out.Reward
		p.XP += out.XP
		p.SuccessfulRobberies++
	} else {
		out.JailMinutes = JailMinutes(p, c)
		Jail(p, now, out.JailMinutes)
		out.HPLost = Injure(p, now, c.HPLossOnFail)
	}

	out.LevelsGained = ApplyLevelUps(p)
	return out, nil
}

// ApplyLevelUps converts xp into levels, carrying the remainder
func ApplyLevelUps(p *models.Player) int {
	gained := 0
	for p.Level > 0 && p.XP >= int64(p.Level*XPPerLevel) {
		p.XP -= int64(p.Level * XPPerLevel)
		p.Level++
		gained++
	}
	return gained
}
