package engine

import (
	"sort"

	"github.com/antigravity/micro-route-planner/internal/config"
)

// routeEfficiencyFactor weights in-vehicle time when the summed BUS-leg
// distance exceeds 2.0x the direct haversine distance between endpoints.
const routeEfficiencyFactor = 1.5
const routeEfficiencyThreshold = 2.0
const routeEfficiencyBaseline = 1.0

// directBonus rewards a zero-transfer itinerary with a short walk.
const directBonusAmount = -200.0
const directBonusMaxWalkM = 500.0

// generalizedCost scores an itinerary in seconds-equivalent units; lower is
// better. In-vehicle time is weighted up when the ride is circuitous, walk
// and wait time carry their own weights, transfers a flat penalty, and a
// direct short-walk trip earns a bonus.
func generalizedCost(it Itinerary, directDistanceM float64, cfg config.EngineConfig) float64 {
	busDistance := 0.0
	for _, leg := range it.Legs {
		if leg.Mode == ModeBus {
			busDistance += leg.DistanceM
		}
	}

	routeEfficiency := routeEfficiencyBaseline
	if busDistance > routeEfficiencyThreshold*directDistanceM {
		routeEfficiency = routeEfficiencyFactor
	}

	cost := float64(it.TransitSec)*routeEfficiency +
		float64(it.WalkTimeSec)*cfg.WalkPenaltyWeight +
		float64(it.WaitingSec)*1.0 +
		float64(it.Transfers)*float64(cfg.TransferPenaltySeconds) +
		excessWalkPenalty(it.WalkDistanceM)

	if it.Transfers == 0 && it.WalkDistanceM < directBonusMaxWalkM {
		cost += directBonusAmount
	}

	return cost
}

// excessWalkPenalty grows cumulatively as walk distance crosses each
// threshold: free up to 300m, then progressively steeper bands.
func excessWalkPenalty(walkDistanceM float64) float64 {
	penalty := 0.0
	if walkDistanceM > 300 {
		penalty += (walkDistanceM - 300) * 2.0
	}
	if walkDistanceM > 800 {
		penalty += (walkDistanceM - 800) * 4.0
	}
	if walkDistanceM > 1500 {
		penalty += (walkDistanceM - 1500) * 10.0
	}
	return penalty
}

// rankAndFilter scores and sorts the candidate itinerary list, prunes
// excessive-walk entries when enough short-walk options exist, then
// truncates to the requested count.
func rankAndFilter(itineraries []Itinerary, directDistanceM float64, cfg config.EngineConfig, numRequested int) []Itinerary {
	scored := make([]Itinerary, len(itineraries))
	copy(scored, itineraries)
	for i := range scored {
		scored[i].Cost = generalizedCost(scored[i], directDistanceM, cfg)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Cost < scored[j].Cost
	})

	if len(scored) >= 5 {
		minWalkTop5 := scored[0].WalkDistanceM
		for i := 1; i < 5; i++ {
			if scored[i].WalkDistanceM < minWalkTop5 {
				minWalkTop5 = scored[i].WalkDistanceM
			}
		}
		if minWalkTop5 < 1000 {
			filtered := make([]Itinerary, 0, len(scored))
			for i, it := range scored {
				if i < 3 || it.WalkDistanceM < 2000 {
					filtered = append(filtered, it)
				}
			}
			scored = filtered
		}
	}

	if numRequested > 0 && len(scored) > numRequested {
		scored = scored[:numRequested]
	}
	return scored
}
