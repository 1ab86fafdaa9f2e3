package engine

import (
	"testing"

	"github.com/antigravity/micro-route-planner/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestExcessWalkPenalty(t *testing.T) {
	cases := []struct {
		name     string
		walkM    float64
		expected float64
	}{
		{"under first threshold is free", 250, 0},
		{"between 300 and 800", 500, (500 - 300) * 2.0},
		{"between 800 and 1500", 1000, (1000-300)*2.0 + (1000-800)*4.0},
		{"above 1500", 2000, (2000-300)*2.0 + (2000-800)*4.0 + (2000-1500)*10.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, excessWalkPenalty(tc.walkM), 0.001)
		})
	}
}

func TestGeneralizedCost(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	t.Run("direct zero-transfer short-walk itinerary gets the direct bonus", func(t *testing.T) {
		it := Itinerary{TransitSec: 600, WalkTimeSec: 120, WalkDistanceM: 200, Transfers: 0}
		withBonus := generalizedCost(it, 5000, cfg)

		itNoBonus := it
		itNoBonus.WalkDistanceM = 900
		withoutBonus := generalizedCost(itNoBonus, 5000, cfg)

		assert.Less(t, withBonus, withoutBonus)
	})

	t.Run("more transfers cost more, all else equal", func(t *testing.T) {
		base := Itinerary{TransitSec: 600, WalkTimeSec: 120, WalkDistanceM: 200, Transfers: 0}
		withTransfer := base
		withTransfer.Transfers = 1

		assert.Less(t, generalizedCost(base, 5000, cfg), generalizedCost(withTransfer, 5000, cfg))
	})

	t.Run("inefficient routing penalized when bus distance far exceeds direct distance", func(t *testing.T) {
		efficient := Itinerary{TransitSec: 600, Legs: []Leg{{Mode: ModeBus, DistanceM: 4000}}}
		inefficient := Itinerary{TransitSec: 600, Legs: []Leg{{Mode: ModeBus, DistanceM: 40000}}}

		assert.Less(t, generalizedCost(efficient, 5000, cfg), generalizedCost(inefficient, 5000, cfg))
	})
}

func TestRankAndFilter(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	t.Run("sorts ascending by cost and truncates", func(t *testing.T) {
		itins := []Itinerary{
			{TransitSec: 1800, WalkTimeSec: 300, WalkDistanceM: 200},
			{TransitSec: 300, WalkTimeSec: 60, WalkDistanceM: 100},
			{TransitSec: 900, WalkTimeSec: 120, WalkDistanceM: 150},
		}
		ranked := rankAndFilter(itins, 5000, cfg, 2)
		assert.Len(t, ranked, 2)
		assert.LessOrEqual(t, ranked[0].Cost, ranked[1].Cost)
	})

	t.Run("empty input yields empty output, never a panic", func(t *testing.T) {
		ranked := rankAndFilter(nil, 1000, cfg, 5)
		assert.Empty(t, ranked)
	})

	t.Run("excess-walk filter drops a long-walk itinerary ranked below the first three", func(t *testing.T) {
		itins := make([]Itinerary, 6)
		for i := range itins {
			itins[i] = Itinerary{TransitSec: 100 * i, WalkDistanceM: 100}
		}
		itins[0].WalkDistanceM = 3000
		ranked := rankAndFilter(itins, 1000, cfg, 10)
		assert.NotEmpty(t, ranked)
		assert.Len(t, ranked, 5)
		for _, it := range ranked {
			assert.Less(t, it.WalkDistanceM, 2000.0)
		}
	})
}
