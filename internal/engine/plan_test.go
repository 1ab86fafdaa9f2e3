package engine

import (
	"context"
	"testing"

	"github.com/antigravity/micro-route-planner/internal/config"
	"github.com/antigravity/micro-route-planner/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory SpatialStore used to exercise Engine.Plan
// without a database.
type fakeStore struct {
	nearby           []NearbyStop
	geomRoutes       []GeometryRoute
	directStopRoutes []DirectStopRoute
	transfers        []TransferCandidate
	triples          []TripleTransferCandidate
	failNearby       bool
}

func (f *fakeStore) NearbyStops(ctx context.Context, p geo.Point, radiusM float64, limit int) ([]NearbyStop, error) {
	if f.failNearby {
		return nil, assert.AnError
	}
	return f.nearby, nil
}

func (f *fakeStore) GeomRoutesThroughBoth(ctx context.Context, from, to geo.Point, radiusM float64) ([]GeometryRoute, error) {
	return f.geomRoutes, nil
}

func (f *fakeStore) DirectStopRoutes(ctx context.Context, originStopIDs, destStopIDs []int64) ([]DirectStopRoute, error) {
	return f.directStopRoutes, nil
}

func (f *fakeStore) GeomTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]TransferCandidate, error) {
	return f.transfers, nil
}

func (f *fakeStore) GeomTripleTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]TripleTransferCandidate, error) {
	return f.triples, nil
}

func (f *fakeStore) PatternGeometry(ctx context.Context, patternID string) ([]geo.Point, error) {
	return nil, nil
}

func (f *fakeStore) StopByID(ctx context.Context, id int64) (*Stop, error) {
	return nil, nil
}

func TestEnginePlan(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	poly := straightPolyline(20)
	origin := geo.Point{Lat: poly[1].Lat, Lon: poly[1].Lon}
	dest := geo.Point{Lat: poly[18].Lat, Lon: poly[18].Lon}

	t.Run("short direct ride via geometry candidate", func(t *testing.T) {
		store := &fakeStore{
			geomRoutes: []GeometryRoute{
				{Pattern: Pattern{ID: "p1", Line: testLine("14"), Geometry: poly}},
			},
		}
		e := NewEngine(store, cfg)
		plan := e.Plan(context.Background(), PlanRequest{Origin: origin, Destination: dest, NumItineraries: 5})

		require.NotEmpty(t, plan.Itineraries)
		assert.False(t, plan.Trace.UsedWalkOnlyFallback)
	})

	t.Run("no candidates anywhere falls back to a walk-only itinerary", func(t *testing.T) {
		store := &fakeStore{}
		e := NewEngine(store, cfg)
		plan := e.Plan(context.Background(), PlanRequest{Origin: origin, Destination: dest, NumItineraries: 5})

		require.Len(t, plan.Itineraries, 1)
		assert.True(t, plan.Trace.UsedWalkOnlyFallback)
		assert.Equal(t, 0, plan.Itineraries[0].Transfers)
	})

	t.Run("store failures never surface as an error, only a reduced plan", func(t *testing.T) {
		store := &fakeStore{failNearby: true}
		e := NewEngine(store, cfg)
		plan := e.Plan(context.Background(), PlanRequest{Origin: origin, Destination: dest, NumItineraries: 5})

		require.NotEmpty(t, plan.Itineraries)
	})

	t.Run("already-cancelled context still returns a usable plan", func(t *testing.T) {
		store := &fakeStore{
			geomRoutes: []GeometryRoute{{Pattern: Pattern{ID: "p1", Line: testLine("14"), Geometry: poly}}},
		}
		e := NewEngine(store, cfg)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		plan := e.Plan(ctx, PlanRequest{Origin: origin, Destination: dest, NumItineraries: 5})

		require.NotEmpty(t, plan.Itineraries)
		assert.True(t, plan.Trace.DeadlineExceeded)
	})

	t.Run("calling Plan twice with the same request is deterministic", func(t *testing.T) {
		store := &fakeStore{
			geomRoutes: []GeometryRoute{{Pattern: Pattern{ID: "p1", Line: testLine("14"), Geometry: poly}}},
		}
		e := NewEngine(store, cfg)
		req := PlanRequest{Origin: origin, Destination: dest, NumItineraries: 5, StartTimeMS: 1000}

		plan1 := e.Plan(context.Background(), req)
		plan2 := e.Plan(context.Background(), req)

		require.Equal(t, len(plan1.Itineraries), len(plan2.Itineraries))
		for i := range plan1.Itineraries {
			assert.Equal(t, plan1.Itineraries[i].Cost, plan2.Itineraries[i].Cost)
			assert.Equal(t, plan1.Itineraries[i].DurationSec, plan2.Itineraries[i].DurationSec)
		}
	})

	t.Run("TransitDisabled skips the spatial stages and returns walk-only", func(t *testing.T) {
		store := &fakeStore{
			geomRoutes: []GeometryRoute{{Pattern: Pattern{ID: "p1", Line: testLine("14"), Geometry: poly}}},
		}
		e := NewEngine(store, cfg)
		plan := e.Plan(context.Background(), PlanRequest{Origin: origin, Destination: dest, NumItineraries: 5, TransitDisabled: true})

		require.Len(t, plan.Itineraries, 1)
		assert.True(t, plan.Trace.UsedWalkOnlyFallback)
		assert.Equal(t, 0, plan.Itineraries[0].Transfers)
	})

	t.Run("default NumItineraries and MaxTransferDepth apply when zero", func(t *testing.T) {
		store := &fakeStore{}
		e := NewEngine(store, cfg)
		plan := e.Plan(context.Background(), PlanRequest{Origin: origin, Destination: dest})
		require.NotEmpty(t, plan.Itineraries)
	})
}

func TestAdaptiveRadii(t *testing.T) {
	cases := []struct {
		name               string
		distM              float64
		wantGeom, wantStop float64
	}{
		{"short trip", 1000, 800, 1200},
		{"medium trip", 3000, 1500, 2000},
		{"long trip", 10000, 2500, 3000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, s := adaptiveRadii(tc.distM)
			assert.Equal(t, tc.wantGeom, g)
			assert.Equal(t, tc.wantStop, s)
		})
	}
}
