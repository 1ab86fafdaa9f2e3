package engine

import (
	"github.com/antigravity/micro-route-planner/internal/config"
	"github.com/antigravity/micro-route-planner/internal/geo"
)

// buildDirectGeometryItinerary builds a walk / ride / walk itinerary for a
// single pattern whose polyline passes near both endpoints. Any rejection
// here is a normal "this candidate doesn't work" outcome (bad geometry, bad
// ordering) and is never propagated as an error, only as a nil itinerary so
// the caller moves to the next candidate.
func buildDirectGeometryItinerary(cfg config.EngineConfig, pattern Pattern, origin, dest geo.Point, startMS int64) *Itinerary {
	if len(pattern.Geometry) < 2 {
		logRejectedCandidate(pattern.ID, errBadGeometry)
		return nil
	}

	boardPt, iBoard := projectOntoPolyline(pattern.Geometry, origin)
	alightPt, iAlight := projectOntoPolyline(pattern.Geometry, dest)

	sliced, ok := sliceBetweenIndices(pattern.Geometry, iBoard, iAlight)
	if !ok {
		logRejectedCandidate(pattern.ID, errBadCandidateOrdering)
		return nil
	}
	if sliced.reversed {
		logReversedRide(pattern.ID)
	}

	c := &clock{nowMS: startMS}
	route := routeInfoForLine(pattern.Line, pattern.ID)

	legs := make([]Leg, 0, 3)
	legs = append(legs, walkLeg(c, Place{Name: "Origin", Point: origin}, Place{Name: "Bus boarding point", Point: boardPt}, cfg))
	c.advanceSeconds(cfg.WaitSecondsPerBoard)
	legs = append(legs, busLeg(c, Place{Name: "Bus boarding point", Point: boardPt}, Place{Name: "Bus alighting point", Point: alightPt}, sliced.segment, route, cfg))
	legs = append(legs, walkLeg(c, Place{Name: "Bus alighting point", Point: alightPt}, Place{Name: "Destination", Point: dest}, cfg))

	it := summarize(legs, startMS)
	return &it
}

// buildDirectStopItinerary builds the same leg shape as
// buildDirectGeometryItinerary but the board/alight Places are the actual
// Stop coordinates, not a projection of the query points. The bus-ride
// segment is still sliced from the pattern's polyline (projecting the stop
// coordinates onto it) so that the on-wire geometry follows the authored
// route; if no usable polyline exists the ride degenerates to a straight
// hop between the two stops.
func buildDirectStopItinerary(cfg config.EngineConfig, route DirectStopRoute, origin, dest geo.Point, startMS int64) *Itinerary {
	originStop := route.OriginStop
	destStop := route.DestStop

	walkToStop := geo.WalkDistanceMeters(origin, originStop.Point)
	walkFromStop := geo.WalkDistanceMeters(destStop.Point, dest)
	if walkToStop+walkFromStop > 1200 {
		return nil
	}

	var segment []geo.Point
	if len(route.Pattern.Geometry) >= 2 {
		_, iBoard := projectOntoPolyline(route.Pattern.Geometry, originStop.Point)
		_, iAlight := projectOntoPolyline(route.Pattern.Geometry, destStop.Point)
		if sliced, ok := sliceBetweenIndices(route.Pattern.Geometry, iBoard, iAlight); ok {
			if sliced.reversed {
				logReversedRide(route.Pattern.ID)
			}
			segment = sliced.segment
		}
	}
	if segment == nil {
		segment = []geo.Point{originStop.Point, destStop.Point}
	}

	c := &clock{nowMS: startMS}
	routeInfo := routeInfoForLine(route.Pattern.Line, route.Pattern.ID)

	legs := make([]Leg, 0, 3)
	legs = append(legs, walkLeg(c, Place{Name: "Origin", Point: origin}, Place{Name: originStop.Name, Point: originStop.Point}, cfg))
	c.advanceSeconds(cfg.WaitSecondsPerBoard)
	legs = append(legs, busLeg(c, Place{Name: originStop.Name, Point: originStop.Point}, Place{Name: destStop.Name, Point: destStop.Point}, segment, routeInfo, cfg))
	legs = append(legs, walkLeg(c, Place{Name: destStop.Name, Point: destStop.Point}, Place{Name: "Destination", Point: dest}, cfg))

	it := summarize(legs, startMS)
	return &it
}

// buildWalkOnlyItinerary is the fallback that is always available. It uses
// the detour-scaled distance, never raw haversine.
func buildWalkOnlyItinerary(cfg config.EngineConfig, origin, dest geo.Point, startMS int64) Itinerary {
	c := &clock{nowMS: startMS}
	leg := walkLeg(c, Place{Name: "Origin", Point: origin}, Place{Name: "Destination", Point: dest}, cfg)
	return summarize([]Leg{leg}, startMS)
}
