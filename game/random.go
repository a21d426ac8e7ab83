package game

import (
	"math/rand/v2"
	"time"
)

// Clock supplies the current time to the rules
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Random is the uniform random source used for every roll
type Random interface {
	// Float64 returns a value in [0,1)
	Float64() float64
	// Int64N returns a value in [0,n)
	Int64N(n int64) int64
}

// SystemRandom draws from the process-wide generator
type SystemRandom struct{}

func (SystemRandom) Float64() float64     { return rand.Float64() }
func (SystemRandom) Int64N(n int64) int64 { return rand.Int64N(n) }

// roll returns a percentage in [0,100)
func roll(r Random) float64 {
	return r.Float64() * 100
}

// between returns a uniform integer in [lo,hi], inclusive on both ends
func between(r Random, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Int64N(hi-lo+1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
