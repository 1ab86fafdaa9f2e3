package engine

import (
	"context"

	"github.com/antigravity/micro-route-planner/internal/geo"
)

// NearbyStop pairs a Stop with its distance to the query point.
type NearbyStop struct {
	Stop     Stop
	Distance float64
}

// GeometryRoute is a Pattern whose polyline lies within radiusM of both the
// origin and destination points of a GeomRoutesThroughBoth query.
type GeometryRoute struct {
	Pattern        Pattern
	DistFromOrigin float64
	DistFromDest   float64
}

// DirectStopRoute is a Pattern containing an origin stop and a destination
// stop in increasing sequence order, as returned by DirectStopRoutes.
type DirectStopRoute struct {
	Pattern    Pattern
	OriginStop Stop
	DestStop   Stop
	OriginSeq  int
	DestSeq    int
}

// TransferCandidate is one geometry-based single-transfer pair (P1, P2)
// joined at TransferPoint, the closest point on P1 to P2.
type TransferCandidate struct {
	First         Pattern
	Second        Pattern
	TransferPoint geo.Point
}

// TripleTransferCandidate chains three pairwise-distinct-line patterns via
// two closest-point transfers.
type TripleTransferCandidate struct {
	First          Pattern
	Second         Pattern
	Third          Pattern
	FirstTransfer  geo.Point
	SecondTransfer geo.Point
}

// SpatialStore is the read-only spatial query layer. Every method must be
// translatable to a single bounded PostGIS query and must never return an
// inactive Line's patterns. Implementations live in internal/store; this
// interface is what the engine depends on so builders can be tested against
// a fake without a database.
type SpatialStore interface {
	// NearbyStops returns Stops within radiusM of (lat, lon), nearest first,
	// capped at limit.
	NearbyStops(ctx context.Context, p geo.Point, radiusM float64, limit int) ([]NearbyStop, error)

	// GeomRoutesThroughBoth returns Patterns whose polyline passes within
	// radiusM of both from and to, ordered by summed distance then route
	// length, capped at 200.
	GeomRoutesThroughBoth(ctx context.Context, from, to geo.Point, radiusM float64) ([]GeometryRoute, error)

	// DirectStopRoutes returns Patterns containing one origin stop and one
	// destination stop with originSeq < destSeq, ordered by sequence gap,
	// capped at 50, de-duplicated by pattern.
	DirectStopRoutes(ctx context.Context, originStopIDs, destStopIDs []int64) ([]DirectStopRoute, error)

	// GeomTransfer returns (P1, P2) pairs from different Lines connected by
	// a single geometry-to-geometry transfer, ordered by total estimated
	// walk ascending, capped at 100.
	GeomTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]TransferCandidate, error)

	// GeomTripleTransfer returns (P1, P2, P3) triples of pairwise-distinct
	// Lines chained via closest-point transfers, capped at 50.
	GeomTripleTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]TripleTransferCandidate, error)

	// PatternGeometry returns the ordered polyline for a pattern. Callers
	// may cache the result for the lifetime of one request, never longer.
	PatternGeometry(ctx context.Context, patternID string) ([]geo.Point, error)

	// StopByID returns a Stop or (nil, nil) if it does not exist.
	StopByID(ctx context.Context, id int64) (*Stop, error)
}
