package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRentalDays(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		end      time.Time
		expected int64
	}{
		{"Exactly two days", start.Add(48 * time.Hour), 2},
		{"One hour rounds up", start.Add(time.Hour), 1},
		{"Day and a minute", start.Add(24*time.Hour + time.Minute), 2},
		{"Thirty days", start.AddDate(0, 0, 30), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := RentalDays(start, tt.end)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, days)
		})
	}

	t.Run("Equal dates", func(t *testing.T) {
		_, err := RentalDays(start, start)
		assert.Error(t, err)
	})

	t.Run("End before start", func(t *testing.T) {
		_, err := RentalDays(start, start.Add(-time.Hour))
		assert.Error(t, err)
	})
}

func TestCalculateRentalCost(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)

	cost, err := CalculateRentalCost(start, end, 5000)
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), cost)

	cost, err = CalculateRentalCost(start, end.Add(time.Minute), 5000)
	assert.NoError(t, err)
	assert.Equal(t, int64(15000), cost)
}

func TestCalculateRentalCost_Rejects(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Overflow", func(t *testing.T) {
		_, err := CalculateRentalCost(start, start.Add(72*time.Hour), 1<<62)
		assert.ErrorIs(t, err, ErrCostOverflow)
	})

	t.Run("Largest price for one day", func(t *testing.T) {
		cost, err := CalculateRentalCost(start, start.Add(time.Hour), math.MaxInt64)
		assert.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), cost)
	})

	t.Run("Non-positive price", func(t *testing.T) {
		_, err := CalculateRentalCost(start, start.Add(24*time.Hour), 0)
		assert.Error(t, err)
	})

	t.Run("Bad range", func(t *testing.T) {
		_, err := CalculateRentalCost(start, start, 100)
		assert.Error(t, err)
	})
}
