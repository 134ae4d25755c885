package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lonA, latA, lonB, latB float64
		want                   float64
		delta                  float64
	}{
		{"same point", 77.5946, 12.9716, 77.5946, 12.9716, 0, 1e-9},
		{"one degree of latitude", 0, 0, 0, 1, 111.19, 0.01},
		{"one degree of longitude at equator", 0, 0, 1, 0, 111.19, 0.01},
		{"bangalore to chennai", 77.5946, 12.9716, 80.2707, 13.0827, 290.2, 1.0},
		{"antipodal", 0, 0, 180, 0, math.Pi * EarthRadiusKm, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Haversine(tt.lonA, tt.latA, tt.lonB, tt.latB), tt.delta)
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	d1 := Haversine(77.5946, 12.9716, 78.4867, 17.3850)
	d2 := Haversine(78.4867, 17.3850, 77.5946, 12.9716)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(0, 0))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.True(t, ValidCoordinates(90, -180))
	assert.False(t, ValidCoordinates(90.0001, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
	assert.False(t, ValidCoordinates(math.NaN(), 0))
}
