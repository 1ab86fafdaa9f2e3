package engine

import "github.com/antigravity/micro-route-planner/internal/geo"

// Mode tags a Leg as walking or riding. Exactly these two cases exist and
// their values are the wire-literal strings clients dispatch on.
type Mode string

const (
	ModeWalk Mode = "WALK"
	ModeBus  Mode = "BUS"
)

// Place is a named point the itinerary passes through.
type Place struct {
	Name  string
	Point geo.Point
}

// RouteInfo carries the display metadata for a transit leg; zero value for a walk leg.
type RouteInfo struct {
	Route          string
	RouteID        string
	RouteShortName string
	RouteLongName  string
	RouteColor     string
	RouteTextColor string
	AgencyName     string
}

// Leg is one continuous walk or ride.
type Leg struct {
	Mode        Mode
	StartTimeMS int64
	EndTimeMS   int64
	DurationSec int
	DistanceM   float64
	From        Place
	To          Place
	Route       RouteInfo
	Geometry    []geo.Point
	TransitLeg  bool
}

// Itinerary is an ordered non-empty sequence of Legs with aggregate totals.
type Itinerary struct {
	Legs          []Leg
	StartTimeMS   int64
	EndTimeMS     int64
	DurationSec   int
	WalkTimeSec   int
	WalkDistanceM float64
	WaitingSec    int
	TransitSec    int
	Transfers     int

	// Cost is the generalized cost computed by the ranking stage. It is
	// not part of the wire schema; set once ranking has run.
	Cost float64
}

// Plan is the ranked result returned to the caller, plus request-echo Places.
type Plan struct {
	Itineraries []Itinerary
	DateMS      int64
	From        Place
	To          Place
	// Trace records per-builder candidate counts. Never serialized on the
	// OTP wire schema; logged by the HTTP handler.
	Trace PlanTrace
}

// PlanTrace carries per-request diagnostic counters for each builder stage.
type PlanTrace struct {
	GeometryDirectCandidates int
	GeometryDirectBuilt      int
	StopDirectCandidates     int
	StopDirectBuilt          int
	OneTransferCandidates    int
	OneTransferBuilt         int
	TwoTransferCandidates    int
	TwoTransferBuilt         int
	ThreeTransferCandidates  int
	ThreeTransferBuilt       int
	UsedWalkOnlyFallback     bool
	DeadlineExceeded         bool
}
