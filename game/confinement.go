package game

import (
	"fmt"
	"math"
	"time"

	"thelife/models"
)

// State is a player's confinement state
type State string

const (
	StateFree         State = "free"
	StateJailed       State = "jailed"
	StateHospitalized State = "hospitalized"
)

// Status is the confinement state with its release time
type Status struct {
	State State      `json:"state"`
	Until *time.Time `json:"until,omitempty"`
}

// Remaining is the time left on the hold, zero when free
func (s Status) Remaining(now time.Time) time.Duration {
	if s.Until == nil || !s.Until.After(now) {
		return 0
	}
	return s.Until.Sub(now)
}

// Policy says which confinement states an action may run in
type Policy int

const (
	// FreeOnly rejects jailed and hospitalized players
	FreeOnly Policy = iota
	// AllowJailed admits jailed players, used by the jail escapes
	AllowJailed
	// AllowHospitalized admits hospitalized players, used by paid treatment
	AllowHospitalized
	// AllowAny admits everyone, used by read-only calls
	AllowAny
)

const (
	HospitalStay         = 30 * time.Minute
	BribeBasePercent     = 5
	BribeStepPercent     = 2
	BribeStepMinutes     = 30
	BribeMaxPercent      = 50
	FullTreatmentPercent = 15
)

// StatusOf reports the active hold. Jail wins when both are set.
func StatusOf(p *models.Player, now time.Time) Status {
	if p.JailUntil != nil && p.JailUntil.After(now) {
		return Status{State: StateJailed, Until: p.JailUntil}
	}
	if p.HospitalUntil != nil && p.HospitalUntil.After(now) {
		return Status{State: StateHospitalized, Until: p.HospitalUntil}
	}
	return Status{State: StateFree}
}

// ClearExpired drops holds whose release time has passed. A player who
// served their sentence at zero hp is admitted to hospital from the moment
// they were let out; the stay is cleared too if it has already run out.
func ClearExpired(p *models.Player, now time.Time) bool {
	changed := false
	if p.JailUntil != nil && !p.JailUntil.After(now) {
		releasedAt := *p.JailUntil
		p.JailUntil = nil
		admitIfDown(p, releasedAt)
		changed = true
	}
	if p.HospitalUntil != nil && !p.HospitalUntil.After(now) {
		p.HospitalUntil = nil
		changed = true
	}
	return changed
}

// Gate rejects the action with ErrConfined unless policy admits the player's state
func Gate(p *models.Player, now time.Time, policy Policy) error {
	status := StatusOf(p, now)
	switch status.State {
	case StateFree:
		return nil
	case StateJailed:
		if policy == AllowJailed || policy == AllowAny {
			return nil
		}
	case StateHospitalized:
		if policy == AllowHospitalized || policy == AllowAny {
			return nil
		}
	}
	return fmt.Errorf("%w: %s for another %d minutes", ErrConfined, status.State, remainingMinutes(status.Remaining(now)))
}

// Jail starts a jail hold of the given length
func Jail(p *models.Player, now time.Time, minutes int) {
	until := now.Add(time.Duration(minutes) * time.Minute)
	p.JailUntil = &until
}

// Hospitalize starts a hospital hold of the given length
func Hospitalize(p *models.Player, now time.Time, d time.Duration) {
	until := now.Add(d)
	p.HospitalUntil = &until
}

// Injure takes dmg hp, flooring at zero. A player knocked to zero who is not
// being jailed goes to hospital. Returns the hp actually lost.
func Injure(p *models.Player, now time.Time, dmg int) int {
	if dmg <= 0 {
		return 0
	}
	lost := dmg
	if lost > p.HP {
		lost = p.HP
	}
	p.HP -= lost
	if p.HP == 0 && StatusOf(p, now).State != StateJailed {
		Hospitalize(p, now, HospitalStay)
	}
	return lost
}

// admitIfDown hospitalizes a player left at zero hp who holds no hospital stay
func admitIfDown(p *models.Player, from time.Time) {
	if p.HP == 0 && p.HospitalUntil == nil {
		Hospitalize(p, from, HospitalStay)
	}
}

// Heal restores hp up to max_hp and returns the amount restored
func Heal(p *models.Player, amount int) int {
	before := p.HP
	p.HP = CapAdd(p.HP, amount, p.MaxHP)
	return p.HP - before
}

func remainingMinutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}

// BribeQuote is the price of buying out a jail sentence
type BribeQuote struct {
	RemainingMinutes int
	Percentage       int
	Amount           int64
}

// QuoteBribe prices a bribe against the player's current wealth
func QuoteBribe(p *models.Player, now time.Time) (BribeQuote, error) {
	status := StatusOf(p, now)
	if status.State != StateJailed {
		return BribeQuote{}, fmt.Errorf("%w: not in jail", ErrInvalidInput)
	}
	minutes := remainingMinutes(status.Remaining(now))
	pct := BribeBasePercent + BribeStepPercent*(minutes/BribeStepMinutes)
	if pct > BribeMaxPercent {
		pct = BribeMaxPercent
	}
	return BribeQuote{
		RemainingMinutes: minutes,
		Percentage:       pct,
		Amount:           p.Wealth() * int64(pct) / 100,
	}, nil
}

// PayFromWealth deducts amount from cash first and the bank for the rest
func PayFromWealth(p *models.Player, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidInput, amount)
	}
	if p.Wealth() < amount {
		return fmt.Errorf("%w: need $%d, have $%d", ErrInsufficientFunds, amount, p.Wealth())
	}
	fromCash := amount
	if fromCash > p.Cash {
		fromCash = p.Cash
	}
	p.Cash -= fromCash
	p.BankBalance -= amount - fromCash
	return nil
}

// Bribe pays the quoted bribe and releases the player from jail
func Bribe(p *models.Player, now time.Time) (BribeQuote, error) {
	quote, err := QuoteBribe(p, now)
	if err != nil {
		return quote, err
	}
	if err := PayFromWealth(p, quote.Amount); err != nil {
		return quote, err
	}
	p.JailUntil = nil
	admitIfDown(p, now)
	return quote, nil
}

// Release clears the jail hold, used after a jail-free item is consumed
func Release(p *models.Player, now time.Time) (int, error) {
	status := StatusOf(p, now)
	if status.State != StateJailed {
		return 0, fmt.Errorf("%w: not in jail", ErrInvalidInput)
	}
	p.JailUntil = nil
	admitIfDown(p, now)
	return remainingMinutes(status.Remaining(now)), nil
}

// Treatment is a paid hospital service
type Treatment string

const (
	TreatmentFull    Treatment = "full"
	TreatmentBandage Treatment = "bandage"
	TreatmentSurgery Treatment = "surgery"
)

var partialTreatments = map[Treatment]struct {
	fee int64
	hp  int
}{
	TreatmentBandage: {fee: 50, hp: 25},
	TreatmentSurgery: {fee: 200, hp: 60},
}

// TreatmentResult is what a treatment cost and did
type TreatmentResult struct {
	Fee        int64
	HPRestored int
	Discharged bool
}

// Treat charges for and applies a hospital treatment. Full recovery costs 15%
// of wealth, restores max hp and discharges; partial heals are flat fees.
func Treat(p *models.Player, now time.Time, t Treatment) (TreatmentResult, error) {
	if t == TreatmentFull {
		if StatusOf(p, now).State != StateHospitalized && p.HP > 0 {
			return TreatmentResult{}, fmt.Errorf("%w: full recovery needs a hospital stay or zero hp", ErrInvalidInput)
		}
		fee := p.Wealth() * FullTreatmentPercent / 100
		if err := PayFromWealth(p, fee); err != nil {
			return TreatmentResult{}, err
		}
		restored := Heal(p, p.MaxHP)
		p.HospitalUntil = nil
		return TreatmentResult{Fee: fee, HPRestored: restored, Discharged: true}, nil
	}

	partial, ok := partialTreatments[t]
	if !ok {
		return TreatmentResult{}, fmt.Errorf("%w: unknown treatment %q", ErrInvalidInput, t)
	}
	if p.HP >= p.MaxHP {
		return TreatmentResult{}, fmt.Errorf("%w: already at full health", ErrInvalidInput)
	}
	if err := PayFromWealth(p, partial.fee); err != nil {
		return TreatmentResult{}, err
	}
	return TreatmentResult{Fee: partial.fee, HPRestored: Heal(p, partial.hp)}, nil
}
