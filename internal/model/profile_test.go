package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyProfileValue(t *testing.T) {
	p := NewMonthlyProfile(map[time.Month]float64{
		time.January: 0.5,
		time.June:    0.2,
	})

	assert.Equal(t, 0.5, p.Value(time.January, 0.99))
	assert.Equal(t, 0.2, p.Value(time.June, 0.99))

	// Missing months fall back to the caller's default, never an error.
	assert.Equal(t, 0.99, p.Value(time.March, 0.99))
	assert.Equal(t, 1.5, p.Value(time.December, 1.5))
}

func TestMonthlyProfileIgnoresInvalidMonths(t *testing.T) {
	p := NewMonthlyProfile(map[time.Month]float64{
		time.Month(0):  1,
		time.Month(13): 2,
		time.March:     3,
	})
	assert.Equal(t, 1, p.Len())
	assert.True(t, p.Has(time.March))
}

func TestConstantProfile(t *testing.T) {
	p := ConstantProfile(0.2)
	assert.Equal(t, 12, p.Len())
	for m := time.January; m <= time.December; m++ {
		assert.Equal(t, 0.2, p.Value(m, -1))
	}
}

func TestZeroProfileAlwaysFallsBack(t *testing.T) {
	var p MonthlyProfile
	assert.Equal(t, 0.2, p.Value(time.July, 0.2))
	assert.Equal(t, 0, p.Len())
}
