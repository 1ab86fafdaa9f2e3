package engine

import "github.com/antigravity/micro-route-planner/internal/geo"

// projectOntoPolyline returns the polyline vertex with minimum haversine
// distance to p, plus its index. Ties resolve to the earliest index. This
// is the only projection the builders use; no point is ever synthesized
// between vertices, a deliberate precision trade-off that keeps results
// bit-exact across runs.
func projectOntoPolyline(polyline []geo.Point, p geo.Point) (geo.Point, int) {
	bestIdx := 0
	bestDist := geo.HaversineMeters(polyline[0], p)

	for i := 1; i < len(polyline); i++ {
		d := geo.HaversineMeters(polyline[i], p)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}

	return polyline[bestIdx], bestIdx
}
