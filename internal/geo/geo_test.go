package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		p := Point{Lat: -17.7833, Lon: -63.1821}
		assert.InDelta(t, 0.0, HaversineMeters(p, p), 1e-6)
	})

	t.Run("known short hop", func(t *testing.T) {
		a := Point{Lat: -17.7833, Lon: -63.1821}
		b := Point{Lat: -17.7843, Lon: -63.1821}
		d := HaversineMeters(a, b)
		assert.InDelta(t, 111.2, d, 2.0)
	})
}

func TestDetourFactor(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"under 200m", 150, 1.3},
		{"just under 200m boundary", 199.999, 1.3},
		{"200m boundary steps up", 200, 1.5},
		{"under 500m", 450, 1.5},
		{"500m boundary steps up", 500, 1.7},
		{"under 1000m", 900, 1.7},
		{"1000m boundary steps up", 1000, 2.0},
		{"far beyond 1000m", 5000, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetourFactor(tt.distance))
		})
	}
}

func TestWalkDistanceMeters(t *testing.T) {
	t.Run("zero stays zero regardless of detour factor", func(t *testing.T) {
		p := Point{Lat: 1, Lon: 1}
		assert.Equal(t, 0.0, WalkDistanceMeters(p, p))
	})

	t.Run("applies the detour factor for the bucket", func(t *testing.T) {
		a := Point{Lat: 0, Lon: 0}
		b := Point{Lat: 0.001, Lon: 0} // ~111m straight line, bucket < 200m
		straight := HaversineMeters(a, b)
		got := WalkDistanceMeters(a, b)
		assert.InDelta(t, straight*1.3, got, 1e-6)
	})
}

func TestWalkTimeSeconds(t *testing.T) {
	assert.Equal(t, 60, WalkTimeSeconds(70, 70))
	assert.Equal(t, 0, WalkTimeSeconds(0, 70))
}

func TestBusTimeSeconds(t *testing.T) {
	assert.Equal(t, 60, BusTimeSeconds(333, 333))
}

func TestPathDistanceMeters(t *testing.T) {
	t.Run("empty and single point are zero", func(t *testing.T) {
		assert.Equal(t, 0.0, PathDistanceMeters(nil))
		assert.Equal(t, 0.0, PathDistanceMeters([]Point{{Lat: 1, Lon: 1}}))
	})

	t.Run("sums consecutive hops", func(t *testing.T) {
		pts := []Point{{Lat: 0, Lon: 0}, {Lat: 0.001, Lon: 0}, {Lat: 0.002, Lon: 0}}
		sum := PathDistanceMeters(pts)
		direct := HaversineMeters(pts[0], pts[2])
		assert.Greater(t, sum, direct-1) // roughly additive over a near-straight line
	})
}
