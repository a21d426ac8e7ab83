package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccrual_Due(t *testing.T) {
	hourly := Accrual{Rate: 20, Period: time.Hour, WholePeriods: true}
	continuous := Accrual{Rate: 50, Period: time.Hour}

	tests := []struct {
		name    string
		accrual Accrual
		elapsed time.Duration
		want    int64
	}{
		{"nothing elapsed", hourly, 0, 0},
		{"clock went backwards", hourly, -time.Hour, 0},
		{"under one whole period", hourly, 59 * time.Minute, 0},
		{"two and a half periods", hourly, 150 * time.Minute, 40},
		{"continuous half hour", continuous, 30 * time.Minute, 25},
		{"continuous fraction floors", continuous, 61 * time.Second, 0},
		{"zero rate", Accrual{Period: time.Hour}, 10 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			since := testNow.Add(-tt.elapsed)
			assert.Equal(t, tt.want, tt.accrual.Due(since, testNow))
		})
	}
}

func TestAccrual_Until(t *testing.T) {
	hourly := Accrual{Rate: 20, Period: time.Hour, WholePeriods: true}
	assert.Equal(t, 20*time.Minute, hourly.Until(testNow.Add(-100*time.Minute), testNow))

	continuous := Accrual{Rate: 60, Period: time.Hour}
	assert.Equal(t, 30*time.Second, continuous.Until(testNow.Add(-90*time.Second), testNow))

	assert.Zero(t, Accrual{Period: time.Hour}.Until(testNow, testNow))
}

func TestCapAdd(t *testing.T) {
	assert.Equal(t, 100, CapAdd(90, 20, 100))
	assert.Equal(t, 70, CapAdd(50, 20, 100))
	assert.Equal(t, 120, CapAdd(120, 5, 100))
}
