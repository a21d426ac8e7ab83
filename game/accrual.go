package game

import (
	"math"
	"time"
)

// Accrual credits Rate units for every Period elapsed between a stored
// timestamp and now. With WholePeriods set only completed periods count.
type Accrual struct {
	Rate         float64
	Period       time.Duration
	WholePeriods bool
}

// Periods is the number of periods elapsed since since
func (a Accrual) Periods(since, now time.Time) float64 {
	if a.Period <= 0 || !now.After(since) {
		return 0
	}
	p := float64(now.Sub(since)) / float64(a.Period)
	if a.WholePeriods {
		p = math.Floor(p)
	}
	return p
}

// Due is the whole number of units accrued since since. It never goes negative
// and is a pure function of its arguments.
func (a Accrual) Due(since, now time.Time) int64 {
	if a.Rate <= 0 {
		return 0
	}
	return int64(math.Floor(a.Periods(since, now) * a.Rate))
}

// Until is the time left before one more whole unit accrues. Zero when Rate is zero.
func (a Accrual) Until(since, now time.Time) time.Duration {
	if a.Rate <= 0 || a.Period <= 0 {
		return 0
	}
	if now.Before(since) {
		now = since
	}
	need := float64(a.Due(since, now)+1) / a.Rate
	if a.WholePeriods {
		need = math.Ceil(need)
	}
	at := since.Add(time.Duration(math.Round(need * float64(a.Period))))
	if !at.After(now) {
		return 0
	}
	return at.Sub(now)
}

// CapAdd adds gain to current without exceeding max
func CapAdd(current, gain, max int) int {
	if current >= max {
		return current
	}
	if gain > max-current {
		return max
	}
	return current + gain
}
