package engine

import (
	"github.com/antigravity/micro-route-planner/internal/config"
	"github.com/antigravity/micro-route-planner/internal/geo"
)

// Hard caps on total walking per transfer depth; a candidate that would
// demand more walking than this is rejected outright.
const (
	maxWalkOneTransferM   = 1000.0
	maxWalkTwoTransferM   = 800.0
	maxWalkThreeTransferM = 600.0
)

// hop describes one bus leg of a multi-transfer itinerary: the pattern
// ridden, and the vertex indices on that pattern's polyline between which
// the rider is aboard.
type hop struct {
	pattern   Pattern
	boardIdx  int
	alightIdx int
	boardPt   geo.Point
	alightPt  geo.Point
}

// buildTransferItinerary assembles an alternating walk/ride itinerary from
// an ordered list of hops connected by walking transfers. It is the shared
// shape of every transfer depth: one wait before each bus boarding, and the
// inter-hop walk itself absorbs any settling time, so no separate settle is
// added on this path.
//
// transferWalks must have len(hops)-1 entries, each a (fromPoint, toPoint) pair
// for the walk between the alighting point of one hop and the boarding
// point of the next.
func buildTransferItinerary(cfg config.EngineConfig, origin, dest geo.Point, hops []hop, transferWalks [][2]geo.Point, maxTotalWalkM float64, startMS int64) *Itinerary {
	if len(hops) == 0 || len(transferWalks) != len(hops)-1 {
		return nil
	}

	segments := make([][]geo.Point, len(hops))
	for i, h := range hops {
		sliced, ok := sliceBetweenIndices(h.pattern.Geometry, h.boardIdx, h.alightIdx)
		if !ok {
			logRejectedCandidate(h.pattern.ID, errBadCandidateOrdering)
			return nil
		}
		if sliced.reversed {
			logReversedRide(h.pattern.ID)
		}
		segments[i] = sliced.segment
	}

	totalWalk := geo.WalkDistanceMeters(origin, hops[0].boardPt) + geo.WalkDistanceMeters(hops[len(hops)-1].alightPt, dest)
	for _, tw := range transferWalks {
		totalWalk += geo.WalkDistanceMeters(tw[0], tw[1])
	}
	if totalWalk > maxTotalWalkM {
		return nil
	}

	c := &clock{nowMS: startMS}
	legs := make([]Leg, 0, len(hops)*2+1)

	legs = append(legs, walkLeg(c, Place{Name: "Origin", Point: origin}, Place{Name: "Bus boarding point", Point: hops[0].boardPt}, cfg))

	for i, h := range hops {
		c.advanceSeconds(cfg.WaitSecondsPerBoard)
		route := routeInfoForLine(h.pattern.Line, h.pattern.ID)
		legs = append(legs, busLeg(c,
			Place{Name: "Bus boarding point", Point: h.boardPt},
			Place{Name: "Bus alighting point", Point: h.alightPt},
			segments[i], route, cfg))

		if i < len(transferWalks) {
			next := hops[i+1]
			legs = append(legs, walkLeg(c,
				Place{Name: "Bus alighting point", Point: h.alightPt},
				Place{Name: "Bus boarding point", Point: next.boardPt},
				cfg))
		}
	}

	legs = append(legs, walkLeg(c, Place{Name: "Bus alighting point", Point: hops[len(hops)-1].alightPt}, Place{Name: "Destination", Point: dest}, cfg))

	it := summarize(legs, startMS)
	return &it
}

// buildOneTransferItinerary builds a two-pattern itinerary joined at a
// single geometry-to-geometry transfer point.
func buildOneTransferItinerary(cfg config.EngineConfig, cand TransferCandidate, origin, dest geo.Point, startMS int64) *Itinerary {
	if len(cand.First.Geometry) < 2 || len(cand.Second.Geometry) < 2 {
		logRejectedCandidate(cand.First.ID, errBadGeometry)
		return nil
	}

	board, iBoard := projectOntoPolyline(cand.First.Geometry, origin)
	t1, iT1 := projectOntoPolyline(cand.First.Geometry, cand.TransferPoint)
	t2, iT2 := projectOntoPolyline(cand.Second.Geometry, cand.TransferPoint)
	alight, iAlight := projectOntoPolyline(cand.Second.Geometry, dest)

	if !(iBoard < iT1 && iT2 < iAlight) {
		logRejectedCandidate(cand.First.ID, errBadCandidateOrdering)
		return nil
	}

	hops := []hop{
		{pattern: cand.First, boardIdx: iBoard, alightIdx: iT1, boardPt: board, alightPt: t1},
		{pattern: cand.Second, boardIdx: iT2, alightIdx: iAlight, boardPt: t2, alightPt: alight},
	}
	transferWalks := [][2]geo.Point{{t1, t2}}

	return buildTransferItinerary(cfg, origin, dest, hops, transferWalks, maxWalkOneTransferM, startMS)
}

// buildTwoTransferItinerary rides three patterns via two
// geometry-to-geometry transfers. Lines must be pairwise distinct, which
// the store guarantees for GeomTripleTransfer results.
func buildTwoTransferItinerary(cfg config.EngineConfig, cand TripleTransferCandidate, origin, dest geo.Point, startMS int64) *Itinerary {
	if len(cand.First.Geometry) < 2 || len(cand.Second.Geometry) < 2 || len(cand.Third.Geometry) < 2 {
		logRejectedCandidate(cand.First.ID, errBadGeometry)
		return nil
	}

	board, iBoard := projectOntoPolyline(cand.First.Geometry, origin)
	t1a, iT1a := projectOntoPolyline(cand.First.Geometry, cand.FirstTransfer)
	t1b, iT1b := projectOntoPolyline(cand.Second.Geometry, cand.FirstTransfer)
	t2a, iT2a := projectOntoPolyline(cand.Second.Geometry, cand.SecondTransfer)
	t2b, iT2b := projectOntoPolyline(cand.Third.Geometry, cand.SecondTransfer)
	alight, iAlight := projectOntoPolyline(cand.Third.Geometry, dest)

	if !(iBoard < iT1a && iT1b < iT2a && iT2b < iAlight) {
		logRejectedCandidate(cand.First.ID, errBadCandidateOrdering)
		return nil
	}

	hops := []hop{
		{pattern: cand.First, boardIdx: iBoard, alightIdx: iT1a, boardPt: board, alightPt: t1a},
		{pattern: cand.Second, boardIdx: iT1b, alightIdx: iT2a, boardPt: t1b, alightPt: t2a},
		{pattern: cand.Third, boardIdx: iT2b, alightIdx: iAlight, boardPt: t2b, alightPt: alight},
	}
	transferWalks := [][2]geo.Point{{t1a, t1b}, {t2a, t2b}}

	return buildTransferItinerary(cfg, origin, dest, hops, transferWalks, maxWalkTwoTransferM, startMS)
}

// buildThreeTransferItinerary rides four patterns via three transfers. No
// single store operation returns a quadruple of patterns, so this composes
// a triple-transfer candidate with one further geometry transfer appended
// at the far end, the natural extension of the bounded-candidate
// construction. See DESIGN.md for why the store stops at triples.
func buildThreeTransferItinerary(cfg config.EngineConfig, triple TripleTransferCandidate, extra TransferCandidate, origin, dest geo.Point, startMS int64) *Itinerary {
	if len(triple.First.Geometry) < 2 || len(triple.Second.Geometry) < 2 ||
		len(triple.Third.Geometry) < 2 || len(extra.Second.Geometry) < 2 {
		logRejectedCandidate(triple.First.ID, errBadGeometry)
		return nil
	}

	board, iBoard := projectOntoPolyline(triple.First.Geometry, origin)
	t1a, iT1a := projectOntoPolyline(triple.First.Geometry, triple.FirstTransfer)
	t1b, iT1b := projectOntoPolyline(triple.Second.Geometry, triple.FirstTransfer)
	t2a, iT2a := projectOntoPolyline(triple.Second.Geometry, triple.SecondTransfer)
	t2b, iT2b := projectOntoPolyline(triple.Third.Geometry, triple.SecondTransfer)
	t3a, iT3a := projectOntoPolyline(triple.Third.Geometry, extra.TransferPoint)
	t3b, iT3b := projectOntoPolyline(extra.Second.Geometry, extra.TransferPoint)
	alight, iAlight := projectOntoPolyline(extra.Second.Geometry, dest)

	if !(iBoard < iT1a && iT1b < iT2a && iT2b < iT3a && iT3b < iAlight) {
		logRejectedCandidate(triple.First.ID, errBadCandidateOrdering)
		return nil
	}

	hops := []hop{
		{pattern: triple.First, boardIdx: iBoard, alightIdx: iT1a, boardPt: board, alightPt: t1a},
		{pattern: triple.Second, boardIdx: iT1b, alightIdx: iT2a, boardPt: t1b, alightPt: t2a},
		{pattern: triple.Third, boardIdx: iT2b, alightIdx: iT3a, boardPt: t2b, alightPt: t3a},
		{pattern: extra.Second, boardIdx: iT3b, alightIdx: iAlight, boardPt: t3b, alightPt: alight},
	}
	transferWalks := [][2]geo.Point{{t1a, t1b}, {t2a, t2b}, {t3a, t3b}}

	return buildTransferItinerary(cfg, origin, dest, hops, transferWalks, maxWalkThreeTransferM, startMS)
}
