package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/antigravity/micro-route-planner/internal/config"
	"github.com/antigravity/micro-route-planner/internal/engine"
	"github.com/antigravity/micro-route-planner/internal/geo"
	"github.com/antigravity/micro-route-planner/internal/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyStore answers every spatial query with no candidates, forcing the
// engine's walk-only fallback.
type emptyStore struct{}

func (emptyStore) NearbyStops(ctx context.Context, p geo.Point, radiusM float64, limit int) ([]engine.NearbyStop, error) {
	return nil, nil
}
func (emptyStore) GeomRoutesThroughBoth(ctx context.Context, from, to geo.Point, radiusM float64) ([]engine.GeometryRoute, error) {
	return nil, nil
}
func (emptyStore) DirectStopRoutes(ctx context.Context, originStopIDs, destStopIDs []int64) ([]engine.DirectStopRoute, error) {
	return nil, nil
}
func (emptyStore) GeomTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]engine.TransferCandidate, error) {
	return nil, nil
}
func (emptyStore) GeomTripleTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]engine.TripleTransferCandidate, error) {
	return nil, nil
}
func (emptyStore) PatternGeometry(ctx context.Context, patternID string) ([]geo.Point, error) {
	return nil, nil
}
func (emptyStore) StopByID(ctx context.Context, id int64) (*engine.Stop, error) {
	return nil, nil
}

func newTestHandler() *PlanHandler {
	e := engine.NewEngine(emptyStore{}, config.DefaultEngineConfig())
	return NewPlanHandler(e, 0)
}

func TestPlanHandlerValidRequest(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/plan?fromPlace=-17.7833,-63.1821&toPlace=-17.7512,-63.1755", nil)
	w := httptest.NewRecorder()

	h.Plan(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp otp.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plan.Itineraries, 1)
	assert.Equal(t, "WALK", resp.Plan.Itineraries[0].Legs[0].Mode)
}

func TestPlanHandlerMalformedFromPlace(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/plan?fromPlace=abc&toPlace=-17.8,-63.2", nil)
	w := httptest.NewRecorder()

	h.Plan(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandlerMissingToPlace(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/plan?fromPlace=-17.8,-63.2", nil)
	w := httptest.NewRecorder()

	h.Plan(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandlerModeWithoutBusStillReturnsWalkOnly(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/plan?fromPlace=-17.7833,-63.1821&toPlace=-17.7512,-63.1755&mode=WALK", nil)
	w := httptest.NewRecorder()

	h.Plan(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp otp.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plan.Itineraries, 1)
	assert.Equal(t, "WALK", resp.Plan.Itineraries[0].Legs[0].Mode)
}

func TestPlanHandlerRespectsNumItineraries(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/plan?fromPlace=-17.7833,-63.1821&toPlace=-17.7512,-63.1755&numItineraries=2", nil)
	w := httptest.NewRecorder()

	h.Plan(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp otp.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.LessOrEqual(t, len(resp.Plan.Itineraries), 2)
}
