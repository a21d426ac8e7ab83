package game

import (
	"time"

	"github.com/google/uuid"

	"thelife/models"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// scriptedRandom replays fixed draws in order
type scriptedRandom struct {
	floats []float64
	ints   []int64
}

func (r *scriptedRandom) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRandom) Int64N(n int64) int64 {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func testPlayer() *models.Player {
	return NewPlayer(uuid.New(), 1000, testNow.Add(-time.Minute))
}

func ptr(t time.Time) *time.Time {
	return &t
}
