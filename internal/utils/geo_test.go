package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	t.Run("Same point", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineKm(52.52, 13.405, 52.52, 13.405))
	})

	t.Run("Berlin to Paris", func(t *testing.T) {
		d := HaversineKm(52.5200, 13.4050, 48.8566, 2.3522)
		assert.InDelta(t, 878, d, 5)
	})

	t.Run("One degree of latitude", func(t *testing.T) {
		d := HaversineKm(0, 0, 1, 0)
		assert.InDelta(t, 111.19, d, 0.01)
	})

	t.Run("Symmetric", func(t *testing.T) {
		assert.InDelta(t, HaversineKm(10, 20, -30, 40), HaversineKm(-30, 40, 10, 20), 1e-9)
	})
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(90, 180))
	assert.True(t, ValidCoordinates(-90, -180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
}
