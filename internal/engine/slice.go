package engine

import "github.com/antigravity/micro-route-planner/internal/geo"

// loopDetectionMeters is the "first≈last" threshold for treating a pattern
// as a circular route. True circularity should become an authored Pattern
// attribute in a future schema version; until then this heuristic is
// load-bearing for deterministic ranking and must not change.
const loopDetectionMeters = 1000.0

// reverseRecoveryMaxGap bounds how far apart two projections may land, in
// vertex count, before a boarding index slightly ahead of the alighting
// index stops being treated as a recoverable mis-projection.
const reverseRecoveryMaxGap = 10

// sliceResult is the outcome of slicing a pattern's polyline between two
// projected vertex indices.
type sliceResult struct {
	segment  []geo.Point
	reversed bool
}

// sliceBetweenIndices decides, given a polyline and the vertex indices for
// the board and alight points, whether this is a forward ride, a
// wrap-around ride on a circular route, a minor-mis-projection reversal,
// or an invalid direction. iBoard == iAlight is always invalid: zero
// ridden distance is not a bus leg.
func sliceBetweenIndices(polyline []geo.Point, iBoard, iAlight int) (sliceResult, bool) {
	if iBoard == iAlight {
		return sliceResult{}, false
	}

	if iBoard < iAlight {
		return sliceResult{segment: polyline[iBoard : iAlight+1]}, true
	}

	first, last := polyline[0], polyline[len(polyline)-1]
	if geo.HaversineMeters(first, last) < loopDetectionMeters {
		segment := make([]geo.Point, 0, len(polyline)-iBoard+iAlight+1)
		segment = append(segment, polyline[iBoard:]...)
		segment = append(segment, polyline[:iAlight+1]...)
		return sliceResult{segment: segment}, true
	}

	if iBoard-iAlight < reverseRecoveryMaxGap {
		forward := polyline[iAlight : iBoard+1]
		segment := make([]geo.Point, len(forward))
		for i, p := range forward {
			segment[len(forward)-1-i] = p
		}
		return sliceResult{segment: segment, reversed: true}, true
	}

	return sliceResult{}, false
}
