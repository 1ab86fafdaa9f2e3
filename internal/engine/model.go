// Package engine is the Route Planning Engine: it combines the spatial
// query layer, itinerary builders, and the ranking/filter stage into one
// cooperating pipeline. It never mutates the store; every type here is
// either read from the store or built fresh for the lifetime of one plan
// request.
package engine

import "github.com/antigravity/micro-route-planner/internal/geo"

// Line is an operational service identity. Line.Active gates whether the
// store may ever surface it to the engine.
type Line struct {
	ID         int64
	ShortName  string
	LongName   string
	Color      string
	TextColor  string
	Mode       string
	Active     bool
	AgencyName string
}

// Sense is the authored direction of a Pattern.
type Sense string

const (
	SenseOutbound Sense = "outbound"
	SenseInbound  Sense = "inbound"
)

// Pattern is one directional traversal of a Line. A Pattern with fewer than
// two polyline points cannot participate in planning (invariant i).
type Pattern struct {
	ID       string
	Line     Line
	Sense    Sense
	Geometry []geo.Point
}

// Stop is a nominal boarding location.
type Stop struct {
	ID     int64
	Name   string
	Point  geo.Point
	Active bool
}

// PatternStop associates a Stop with a Pattern at a strictly increasing Sequence.
type PatternStop struct {
	PatternID string
	Stop      Stop
	Sequence  int
}
