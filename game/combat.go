package game

import (
	"fmt"
	"time"

	"thelife/models"
)

const (
	AttackTicketCost = 3
	AttackMinHP      = 20
	StolenPercent    = 10
)

// Power is a player's combat strength, scaled down by hp ratio below half health
func Power(p *models.Player) float64 {
	power := 2*float64(p.Strength) + 1.5*float64(p.Defense) + float64(p.Intelligence) + 10*float64(p.Level)
	if ratio := hpRatio(p); ratio < 0.5 {
		power *= ratio
	}
	return power
}

// WinChance is the attacker's chance to win, clamped to [5,95]
func WinChance(attacker, defender *models.Player) float64 {
	ap, dp := Power(attacker), Power(defender)
	if ap+dp <= 0 {
		return 50
	}
	return clamp(ap/(ap+dp)*100, MinChance, MaxChance)
}

// CheckAttack validates the attacker's side of an attack
func CheckAttack(attacker *models.Player) error {
	if attacker.Tickets < AttackTicketCost {
		return fmt.Errorf("%w: need %d tickets, have %d", ErrInsufficientResource, AttackTicketCost, attacker.Tickets)
	}
	if attacker.HP < AttackMinHP {
		return fmt.Errorf("%w: need %d hp, have %d", ErrInsufficientResource, AttackMinHP, attacker.HP)
	}
	return nil
}

// ResolveAttack rolls an attack and applies it to both players. The winner
// takes 10% of the loser's cash; the loser drops to zero hp in hospital.
func ResolveAttack(attacker, defender *models.Player, now time.Time, rng Random) (*models.AttackOutcome, error) {
	if err := CheckAttack(attacker); err != nil {
		return nil, err
	}
	if status := StatusOf(defender, now); status.State != StateFree {
		return nil, fmt.Errorf("%w: target is %s", ErrConfined, status.State)
	}

	out := &models.AttackOutcome{
		DefenderID:    defender.ID,
		AttackerPower: Power(attacker),
		DefenderPower: Power(defender),
		WinChance:     WinChance(attacker, defender),
	}
	attacker.Tickets -= AttackTicketCost

	winner, loser := defender, attacker
	if roll(rng) < out.WinChance {
		out.Won = true
		winner, loser = attacker, defender
	}

	out.CashStolen = loser.Cash * StolenPercent / 100
	loser.Cash -= out.CashStolen
	winner.Cash += out.CashStolen
	winner.PvPWins++
	loser.PvPLosses++
	loser.HP = 0
	Hospitalize(loser, now, HospitalStay)

	return out, nil
}
