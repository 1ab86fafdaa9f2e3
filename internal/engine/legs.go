package engine

import (
	"github.com/antigravity/micro-route-planner/internal/config"
	"github.com/antigravity/micro-route-planner/internal/geo"
)

// clock advances wall time across a sequence of legs within one itinerary
// build. Waiting is modeled by advancing the clock rather than emitting a
// distinct Leg.
type clock struct {
	nowMS int64
}

func (c *clock) advanceSeconds(sec int) {
	c.nowMS += int64(sec) * 1000
}

func (c *clock) now() int64 { return c.nowMS }

// walkLeg builds a WALK leg from a to b, using the detour-scaled distance
// uniformly (never raw haversine) and advances the clock by the walk time.
func walkLeg(c *clock, from, to Place, cfg config.EngineConfig) Leg {
	dist := geo.WalkDistanceMeters(from.Point, to.Point)
	durSec := geo.WalkTimeSeconds(dist, cfg.WalkSpeedMPerMin)

	start := c.now()
	c.advanceSeconds(durSec)

	return Leg{
		Mode:        ModeWalk,
		StartTimeMS: start,
		EndTimeMS:   c.now(),
		DurationSec: durSec,
		DistanceM:   dist,
		From:        from,
		To:          to,
		Geometry:    []geo.Point{from.Point, to.Point},
	}
}

// busLeg builds a BUS leg riding geometry from from to to, with
// distance/time computed along the supplied polyline segment.
func busLeg(c *clock, from, to Place, segment []geo.Point, route RouteInfo, cfg config.EngineConfig) Leg {
	dist := geo.PathDistanceMeters(segment)
	durSec := geo.BusTimeSeconds(dist, cfg.BusSpeedMPerMin)

	start := c.now()
	c.advanceSeconds(durSec)

	return Leg{
		Mode:        ModeBus,
		StartTimeMS: start,
		EndTimeMS:   c.now(),
		DurationSec: durSec,
		DistanceM:   dist,
		From:        from,
		To:          to,
		Route:       route,
		Geometry:    segment,
		TransitLeg:  true,
	}
}

func routeInfoForLine(l Line, patternID string) RouteInfo {
	return RouteInfo{
		Route:          l.ShortName,
		RouteID:        patternID,
		RouteShortName: l.ShortName,
		RouteLongName:  l.LongName,
		RouteColor:     l.Color,
		RouteTextColor: l.TextColor,
		AgencyName:     l.AgencyName,
	}
}

// summarize aggregates a completed leg sequence into an Itinerary.
func summarize(legs []Leg, startMS int64) Itinerary {
	it := Itinerary{
		Legs:        legs,
		StartTimeMS: startMS,
	}
	if len(legs) > 0 {
		it.EndTimeMS = legs[len(legs)-1].EndTimeMS
	}
	it.DurationSec = int((it.EndTimeMS - it.StartTimeMS) / 1000)

	transitLegs := 0
	for _, leg := range legs {
		switch leg.Mode {
		case ModeWalk:
			it.WalkTimeSec += leg.DurationSec
			it.WalkDistanceM += leg.DistanceM
		case ModeBus:
			it.TransitSec += leg.DurationSec
			transitLegs++
		}
	}
	if transitLegs > 0 {
		it.Transfers = transitLegs - 1
	}

	it.WaitingSec = it.DurationSec - sumLegDurations(legs)
	if it.WaitingSec < 0 {
		it.WaitingSec = 0
	}
	return it
}

func sumLegDurations(legs []Leg) int {
	total := 0
	for _, leg := range legs {
		total += leg.DurationSec
	}
	return total
}
