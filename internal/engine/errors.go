package engine

import (
	"errors"
	"log"
)

// The engine's failure modes, in decreasing severity. Only a malformed
// request ever reaches the HTTP layer as a non-200; everything else is
// absorbed here so that a well-formed request always returns a non-empty
// plan.

// ErrBadRequest marks a non-parseable coordinate pair. The HTTP handler
// surfaces this as 400; the engine itself never returns it from Plan.
var ErrBadRequest = errors.New("engine: malformed request coordinates")

// errBadGeometry marks a pattern whose polyline violates an invariant (fewer
// than 2 vertices). Builders treat the pattern as if it did not exist.
var errBadGeometry = errors.New("engine: pattern geometry invalid")

// errBadCandidateOrdering marks a candidate whose projected indices are out
// of order along the pattern. The candidate yields a nil itinerary; other
// candidates proceed unaffected.
var errBadCandidateOrdering = errors.New("engine: candidate ordering invalid")

// logRejectedCandidate records why a candidate was dropped. Rejections are
// logged, never propagated: the builder returns nil and the caller moves on.
func logRejectedCandidate(patternID string, err error) {
	log.Printf("candidate %s rejected: %v", patternID, err)
}

// logReversedRide flags an itinerary that rides a pattern against its
// authored direction. The reversal recovers a near-identity projection, but
// it may not correspond to real service; once projection is strengthened
// this recovery is a candidate for removal, so every use is logged.
func logReversedRide(patternID string) {
	log.Printf("candidate %s: ride segment reversed against pattern direction (mis-projection recovery)", patternID)
}
