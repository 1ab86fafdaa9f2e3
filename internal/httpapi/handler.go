// Package httpapi exposes the Route Planning Engine over HTTP in an
// OTP-compatible shape.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/antigravity/micro-route-planner/internal/engine"
	"github.com/antigravity/micro-route-planner/internal/geo"
	"github.com/antigravity/micro-route-planner/internal/otp"

	"github.com/google/uuid"
)

// PlanHandler serves GET /plan against an Engine.
type PlanHandler struct {
	Engine         *engine.Engine
	RequestTimeout time.Duration
}

// NewPlanHandler builds a PlanHandler. A zero timeout disables the deadline.
func NewPlanHandler(e *engine.Engine, timeout time.Duration) *PlanHandler {
	return &PlanHandler{Engine: e, RequestTimeout: timeout}
}

// Plan handles GET /plan.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	planID := uuid.NewString()
	q := r.URL.Query()

	from, err := parseLatLon(q.Get("fromPlace"))
	if err != nil {
		http.Error(w, "fromPlace must be \"lat,lon\"", http.StatusBadRequest)
		return
	}
	to, err := parseLatLon(q.Get("toPlace"))
	if err != nil {
		http.Error(w, "toPlace must be \"lat,lon\"", http.StatusBadRequest)
		return
	}

	numItineraries := 5
	if v := q.Get("numItineraries"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			numItineraries = n
		}
	}

	if v := q.Get("maxWalkDistance"); v != "" {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			log.Printf("plan %s: maxWalkDistance %q not a float, ignoring (advisory only)", planID, v)
		}
	}

	transitDisabled := false
	if v := q.Get("mode"); v != "" {
		transitDisabled = !containsMode(v, "BUS")
	}

	ctx := r.Context()
	if h.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RequestTimeout)
		defer cancel()
	}

	startMS := time.Now().UnixMilli()
	if v := q.Get("time"); v != "" {
		log.Printf("plan %s: time param %q currently ignored beyond echo", planID, v)
	}
	if v := q.Get("date"); v != "" {
		log.Printf("plan %s: date param %q currently ignored beyond echo", planID, v)
	}

	plan := h.Engine.Plan(ctx, engine.PlanRequest{
		Origin:          from,
		Destination:     to,
		NumItineraries:  numItineraries,
		StartTimeMS:     startMS,
		TransitDisabled: transitDisabled,
	})

	log.Printf("plan %s: %d itineraries (walkOnlyFallback=%v deadlineExceeded=%v) trace=%+v",
		planID, len(plan.Itineraries), plan.Trace.UsedWalkOnlyFallback, plan.Trace.DeadlineExceeded, plan.Trace)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(otp.FromEnginePlan(plan)); err != nil {
		log.Printf("plan %s: failed writing response: %v", planID, err)
	}
}

// containsMode reports whether the comma-separated mode list carries want,
// case-insensitively. Transit planning requires BUS in the list.
func containsMode(modes, want string) bool {
	for _, m := range strings.Split(modes, ",") {
		if strings.EqualFold(strings.TrimSpace(m), want) {
			return true
		}
	}
	return false
}

func parseLatLon(raw string) (geo.Point, error) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return geo.Point{}, errBadLatLon
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, errBadLatLon
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, errBadLatLon
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}
