package httpapi

import "github.com/antigravity/micro-route-planner/internal/engine"

// errBadLatLon aliases the engine's bad-request sentinel for a malformed
// "lat,lon" query parameter.
var errBadLatLon = engine.ErrBadRequest
