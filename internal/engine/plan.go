package engine

import (
	"context"
	"log"

	"github.com/antigravity/micro-route-planner/internal/config"
	"github.com/antigravity/micro-route-planner/internal/geo"
	"github.com/google/uuid"
)

// Per-stage candidate caps; each builder stage considers at most this many
// store rows before moving on.
const (
	maxGeometryDirectCandidates = 100
	maxStopDirectCandidates     = 25
	maxOneTransferCandidates    = 50
	maxTwoTransferCandidates    = 30
	maxThreeTransferCandidates  = 20

	nearbyStopLimit = 50
)

// PlanRequest is the engine's input: two coordinates, a start time and the
// requested itinerary count. MaxTransferDepth bounds how many transfers the
// pipeline is allowed to escalate to (1-3); zero or negative means 3, which
// is what HTTP requests get since the handler leaves it unset. The
// one-transfer stage runs at every depth.
type PlanRequest struct {
	Origin           geo.Point
	Destination      geo.Point
	NumItineraries   int
	MaxTransferDepth int
	StartTimeMS      int64

	// TransitDisabled is set when the caller's mode filter omits BUS; the
	// engine then skips straight to the walk-only fallback instead of
	// running the spatial-query stages.
	TransitDisabled bool
}

// Engine is the Route Planning Engine: a stateless, parallelism-safe
// combination of the spatial query layer, itinerary builders and the
// ranking/filter stage. One Engine value may serve many concurrent Plan
// calls; nothing here is mutated after construction.
type Engine struct {
	Store  SpatialStore
	Config config.EngineConfig
}

// NewEngine constructs an Engine bound to a SpatialStore.
func NewEngine(store SpatialStore, cfg config.EngineConfig) *Engine {
	return &Engine{Store: store, Config: cfg}
}

// Plan runs the full pipeline: adaptive radius selection, geometry-direct,
// stop-direct, and escalating transfer builders, then ranking. Its contract
// is total: a syntactically well-formed request always returns a non-empty
// Plan, even under store failure or context deadline expiry. Those
// conditions only ever reduce how many itineraries were built, never
// produce an error.
func (e *Engine) Plan(ctx context.Context, req PlanRequest) Plan {
	id := uuid.NewString()
	log.Printf("plan %s: start origin=%v destination=%v", id, req.Origin, req.Destination)

	numRequested := req.NumItineraries
	if numRequested <= 0 {
		numRequested = 5
	}
	maxDepth := req.MaxTransferDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}

	direct := geo.HaversineMeters(req.Origin, req.Destination)
	geometryRadius, stopRadius := adaptiveRadii(direct)

	var itineraries []Itinerary
	var trace PlanTrace

	if req.TransitDisabled {
		return e.finalize(id, req, itineraries, direct, numRequested, trace)
	}

	if deadlineExceeded(ctx) {
		trace.DeadlineExceeded = true
		return e.finalize(id, req, itineraries, direct, numRequested, trace)
	}

	itineraries = append(itineraries, e.runGeometryDirect(ctx, req, geometryRadius, &trace)...)

	if len(itineraries) < numRequested && !deadlineExceeded(ctx) {
		itineraries = append(itineraries, e.runStopDirect(ctx, req, stopRadius, &trace)...)
	}

	if !deadlineExceeded(ctx) {
		itineraries = append(itineraries, e.runOneTransfer(ctx, req, geometryRadius, &trace)...)
	}

	if maxDepth >= 2 && len(itineraries) < numRequested && !deadlineExceeded(ctx) {
		itineraries = append(itineraries, e.runTwoTransfer(ctx, req, geometryRadius, &trace)...)
	}

	if maxDepth >= 3 && len(itineraries) < numRequested && !deadlineExceeded(ctx) {
		itineraries = append(itineraries, e.runThreeTransfer(ctx, req, geometryRadius, &trace)...)
	}

	if deadlineExceeded(ctx) {
		trace.DeadlineExceeded = true
	}

	return e.finalize(id, req, itineraries, direct, numRequested, trace)
}

func (e *Engine) finalize(id string, req PlanRequest, itineraries []Itinerary, direct float64, numRequested int, trace PlanTrace) Plan {
	ranked := rankAndFilter(itineraries, direct, e.Config, numRequested)

	if len(ranked) == 0 {
		trace.UsedWalkOnlyFallback = true
		ranked = []Itinerary{buildWalkOnlyItinerary(e.Config, req.Origin, req.Destination, req.StartTimeMS)}
	}

	log.Printf("plan %s: done %d itineraries (walkOnlyFallback=%v deadlineExceeded=%v)",
		id, len(ranked), trace.UsedWalkOnlyFallback, trace.DeadlineExceeded)

	return Plan{
		Itineraries: ranked,
		DateMS:      req.StartTimeMS,
		From:        Place{Name: "Origin", Point: req.Origin},
		To:          Place{Name: "Destination", Point: req.Destination},
		Trace:       trace,
	}
}

func deadlineExceeded(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// adaptiveRadii sizes the geometry and stop search radii by how far apart
// the endpoints are: longer trips tolerate a wider search.
func adaptiveRadii(directDistanceM float64) (geometryRadius, stopRadius float64) {
	switch {
	case directDistanceM < 2000:
		return 800, 1200
	case directDistanceM < 5000:
		return 1500, 2000
	default:
		return 2500, 3000
	}
}

func (e *Engine) runGeometryDirect(ctx context.Context, req PlanRequest, radiusM float64, trace *PlanTrace) []Itinerary {
	routes, err := e.Store.GeomRoutesThroughBoth(ctx, req.Origin, req.Destination, radiusM)
	if err != nil {
		return nil
	}
	if len(routes) > maxGeometryDirectCandidates {
		routes = routes[:maxGeometryDirectCandidates]
	}
	trace.GeometryDirectCandidates = len(routes)

	var out []Itinerary
	for _, r := range routes {
		if it := buildDirectGeometryItinerary(e.Config, r.Pattern, req.Origin, req.Destination, req.StartTimeMS); it != nil {
			out = append(out, *it)
		}
	}
	trace.GeometryDirectBuilt = len(out)
	return out
}

func (e *Engine) runStopDirect(ctx context.Context, req PlanRequest, radiusM float64, trace *PlanTrace) []Itinerary {
	originStops, err := e.Store.NearbyStops(ctx, req.Origin, radiusM, nearbyStopLimit)
	if err != nil {
		return nil
	}
	destStops, err := e.Store.NearbyStops(ctx, req.Destination, radiusM, nearbyStopLimit)
	if err != nil {
		return nil
	}

	originIDs := stopIDs(originStops)
	destIDs := stopIDs(destStops)
	if len(originIDs) == 0 || len(destIDs) == 0 {
		return nil
	}

	routes, err := e.Store.DirectStopRoutes(ctx, originIDs, destIDs)
	if err != nil {
		return nil
	}
	if len(routes) > maxStopDirectCandidates {
		routes = routes[:maxStopDirectCandidates]
	}
	trace.StopDirectCandidates = len(routes)

	var out []Itinerary
	for _, r := range routes {
		if it := buildDirectStopItinerary(e.Config, r, req.Origin, req.Destination, req.StartTimeMS); it != nil {
			out = append(out, *it)
		}
	}
	trace.StopDirectBuilt = len(out)
	return out
}

func (e *Engine) runOneTransfer(ctx context.Context, req PlanRequest, radiusM float64, trace *PlanTrace) []Itinerary {
	cands, err := e.Store.GeomTransfer(ctx, req.Origin, req.Destination, radiusM, radiusM)
	if err != nil {
		return nil
	}
	if len(cands) > maxOneTransferCandidates {
		cands = cands[:maxOneTransferCandidates]
	}
	trace.OneTransferCandidates = len(cands)

	var out []Itinerary
	for _, c := range cands {
		if it := buildOneTransferItinerary(e.Config, c, req.Origin, req.Destination, req.StartTimeMS); it != nil {
			out = append(out, *it)
		}
	}
	trace.OneTransferBuilt = len(out)
	return out
}

func (e *Engine) runTwoTransfer(ctx context.Context, req PlanRequest, radiusM float64, trace *PlanTrace) []Itinerary {
	cands, err := e.Store.GeomTripleTransfer(ctx, req.Origin, req.Destination, radiusM, radiusM)
	if err != nil {
		return nil
	}
	if len(cands) > maxTwoTransferCandidates {
		cands = cands[:maxTwoTransferCandidates]
	}
	trace.TwoTransferCandidates = len(cands)

	var out []Itinerary
	for _, c := range cands {
		if it := buildTwoTransferItinerary(e.Config, c, req.Origin, req.Destination, req.StartTimeMS); it != nil {
			out = append(out, *it)
		}
	}
	trace.TwoTransferBuilt = len(out)
	return out
}

// runThreeTransfer composes a triple-transfer candidate with one further
// geometry transfer appended at the far end, since the store does not
// expose a dedicated quadruple-pattern operation (see DESIGN.md).
func (e *Engine) runThreeTransfer(ctx context.Context, req PlanRequest, radiusM float64, trace *PlanTrace) []Itinerary {
	triples, err := e.Store.GeomTripleTransfer(ctx, req.Origin, req.Destination, radiusM, radiusM)
	if err != nil {
		return nil
	}
	if len(triples) > maxThreeTransferCandidates {
		triples = triples[:maxThreeTransferCandidates]
	}

	var out []Itinerary
	considered := 0
	for _, triple := range triples {
		if considered >= maxThreeTransferCandidates {
			break
		}
		extras, err := e.Store.GeomTransfer(ctx, triple.SecondTransfer, req.Destination, radiusM, radiusM)
		if err != nil || len(extras) == 0 {
			continue
		}
		considered++
		if it := buildThreeTransferItinerary(e.Config, triple, extras[0], req.Origin, req.Destination, req.StartTimeMS); it != nil {
			out = append(out, *it)
		}
	}
	trace.ThreeTransferCandidates = considered
	trace.ThreeTransferBuilt = len(out)
	return out
}

func stopIDs(stops []NearbyStop) []int64 {
	ids := make([]int64, len(stops))
	for i, s := range stops {
		ids[i] = s.Stop.ID
	}
	return ids
}
