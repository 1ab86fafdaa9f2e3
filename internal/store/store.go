// Package store implements the engine.SpatialStore contract against
// PostGIS, in the bounded-query style of the line and stop lookups this
// project started from: every method that returns candidates runs one main
// query capped by a LIMIT, then loads each returned pattern's polyline (and,
// for the transfer queries, its line metadata) with one follow-up query per
// pattern.
package store

import (
	"context"
	"errors"

	"github.com/antigravity/micro-route-planner/internal/engine"
	"github.com/antigravity/micro-route-planner/internal/geo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostGIS-backed implementation of engine.SpatialStore.
type Store struct {
	db *pgxpool.Pool
}

// New builds a Store bound to an existing pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

var _ engine.SpatialStore = (*Store)(nil)

// IsNoRows reports whether err is the pgx no-rows sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (s *Store) NearbyStops(ctx context.Context, p geo.Point, radiusM float64, limit int) ([]engine.NearbyStop, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, ST_Y(location::geometry), ST_X(location::geometry), active,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS dist
		FROM stops
		WHERE active AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY dist ASC
		LIMIT $4
	`, p.Lon, p.Lat, radiusM, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.NearbyStop
	for rows.Next() {
		var ns engine.NearbyStop
		if err := rows.Scan(&ns.Stop.ID, &ns.Stop.Name, &ns.Stop.Point.Lat, &ns.Stop.Point.Lon, &ns.Stop.Active, &ns.Distance); err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

// GeomRoutesThroughBoth mirrors the CTE join the route planner used to find
// patterns whose shape passes near both endpoints, ordered by combined
// distance.
func (s *Store) GeomRoutesThroughBoth(ctx context.Context, from, to geo.Point, radiusM float64) ([]engine.GeometryRoute, error) {
	rows, err := s.db.Query(ctx, `
		WITH near_origin AS (
			SELECT p.id AS pattern_id,
			       ST_Distance(p.geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS dist_origin
			FROM patterns p
			JOIN lines l ON l.id = p.line_id
			WHERE l.active AND ST_DWithin(p.geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $5)
		),
		near_dest AS (
			SELECT p.id AS pattern_id,
			       ST_Distance(p.geometry, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography) AS dist_dest
			FROM patterns p
			JOIN lines l ON l.id = p.line_id
			WHERE l.active AND ST_DWithin(p.geometry, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5)
		)
		SELECT p.id, l.id, l.short_name, l.long_name, COALESCE(l.color, '000000'), COALESCE(l.text_color, 'FFFFFF'),
		       l.mode, l.active, l.agency_name, p.sense,
		       no_o.dist_origin, no_d.dist_dest
		FROM near_origin no_o
		JOIN near_dest no_d ON no_o.pattern_id = no_d.pattern_id
		JOIN patterns p ON p.id = no_o.pattern_id
		JOIN lines l ON l.id = p.line_id
		ORDER BY (no_o.dist_origin + no_d.dist_dest) ASC, ST_Length(p.geometry) ASC
		LIMIT 200
	`, from.Lon, from.Lat, to.Lon, to.Lat, radiusM)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.GeometryRoute
	for rows.Next() {
		var gr engine.GeometryRoute
		if err := rows.Scan(&gr.Pattern.ID, &gr.Pattern.Line.ID, &gr.Pattern.Line.ShortName, &gr.Pattern.Line.LongName,
			&gr.Pattern.Line.Color, &gr.Pattern.Line.TextColor, &gr.Pattern.Line.Mode, &gr.Pattern.Line.Active,
			&gr.Pattern.Line.AgencyName, &gr.Pattern.Sense, &gr.DistFromOrigin, &gr.DistFromDest); err != nil {
			return nil, err
		}
		geometry, err := s.PatternGeometry(ctx, gr.Pattern.ID)
		if err != nil {
			return nil, err
		}
		gr.Pattern.Geometry = geometry
		out = append(out, gr)
	}
	return out, rows.Err()
}

// DirectStopRoutes finds patterns that visit an origin stop before a
// destination stop in sequence order, the stop-to-stop counterpart of
// GeomRoutesThroughBoth.
func (s *Store) DirectStopRoutes(ctx context.Context, originStopIDs, destStopIDs []int64) ([]engine.DirectStopRoute, error) {
	rows, err := s.db.Query(ctx, `
		WITH candidates AS (
			SELECT DISTINCT ON (p.id)
			       p.id AS pattern_id, l.id AS line_id, l.short_name, l.long_name,
			       COALESCE(l.color, '000000') AS color, COALESCE(l.text_color, 'FFFFFF') AS text_color,
			       l.mode, l.active, l.agency_name, p.sense,
			       so.id AS origin_id, so.name AS origin_name, ST_Y(so.location::geometry) AS origin_lat,
			       ST_X(so.location::geometry) AS origin_lon, so.active AS origin_active, ps1.sequence AS origin_seq,
			       sd.id AS dest_id, sd.name AS dest_name, ST_Y(sd.location::geometry) AS dest_lat,
			       ST_X(sd.location::geometry) AS dest_lon, sd.active AS dest_active, ps2.sequence AS dest_seq,
			       (ps2.sequence - ps1.sequence) AS seq_gap
			FROM pattern_stops ps1
			JOIN pattern_stops ps2 ON ps1.pattern_id = ps2.pattern_id AND ps1.sequence < ps2.sequence
			JOIN patterns p ON p.id = ps1.pattern_id
			JOIN lines l ON l.id = p.line_id
			JOIN stops so ON so.id = ps1.stop_id
			JOIN stops sd ON sd.id = ps2.stop_id
			WHERE l.active AND ps1.stop_id = ANY($1) AND ps2.stop_id = ANY($2)
			ORDER BY p.id, (ps2.sequence - ps1.sequence) ASC
		)
		SELECT pattern_id, line_id, short_name, long_name, color, text_color,
		       mode, active, agency_name, sense,
		       origin_id, origin_name, origin_lat, origin_lon, origin_active, origin_seq,
		       dest_id, dest_name, dest_lat, dest_lon, dest_active, dest_seq
		FROM candidates
		ORDER BY seq_gap ASC
		LIMIT 50
	`, originStopIDs, destStopIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.DirectStopRoute
	for rows.Next() {
		var dr engine.DirectStopRoute
		if err := rows.Scan(&dr.Pattern.ID, &dr.Pattern.Line.ID, &dr.Pattern.Line.ShortName, &dr.Pattern.Line.LongName,
			&dr.Pattern.Line.Color, &dr.Pattern.Line.TextColor, &dr.Pattern.Line.Mode, &dr.Pattern.Line.Active,
			&dr.Pattern.Line.AgencyName, &dr.Pattern.Sense,
			&dr.OriginStop.ID, &dr.OriginStop.Name, &dr.OriginStop.Point.Lat, &dr.OriginStop.Point.Lon, &dr.OriginStop.Active, &dr.OriginSeq,
			&dr.DestStop.ID, &dr.DestStop.Name, &dr.DestStop.Point.Lat, &dr.DestStop.Point.Lon, &dr.DestStop.Active, &dr.DestSeq); err != nil {
			return nil, err
		}
		geometry, err := s.PatternGeometry(ctx, dr.Pattern.ID)
		if err != nil {
			return nil, err
		}
		dr.Pattern.Geometry = geometry
		out = append(out, dr)
	}
	return out, rows.Err()
}

// GeomTransfer chains two patterns from distinct lines via a single
// closest-point transfer, the single-hop case of the chained-CTE transfer
// search.
func (s *Store) GeomTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]engine.TransferCandidate, error) {
	rows, err := s.db.Query(ctx, `
		WITH origin_patterns AS (
			SELECT p.id, p.line_id, p.geometry,
			       ST_Distance(p.geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS dist_origin
			FROM patterns p JOIN lines l ON l.id = p.line_id
			WHERE l.active AND ST_DWithin(p.geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $5)
		),
		dest_patterns AS (
			SELECT p.id, p.line_id, p.geometry,
			       ST_Distance(p.geometry, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography) AS dist_dest
			FROM patterns p JOIN lines l ON l.id = p.line_id
			WHERE l.active AND ST_DWithin(p.geometry, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5)
		),
		paired AS (
			SELECT DISTINCT ON (op.id, dp.id)
			       op.id AS first_id, dp.id AS second_id,
			       ST_Y(ST_ClosestPoint(op.geometry, dp.geometry)::geometry) AS transfer_lat,
			       ST_X(ST_ClosestPoint(op.geometry, dp.geometry)::geometry) AS transfer_lon,
			       (op.dist_origin + dp.dist_dest + ST_Distance(op.geometry, dp.geometry)) AS est_walk
			FROM origin_patterns op
			JOIN dest_patterns dp ON op.line_id <> dp.line_id AND ST_DWithin(op.geometry, dp.geometry, $6)
			ORDER BY op.id, dp.id
		)
		SELECT first_id, second_id, transfer_lat, transfer_lon
		FROM paired
		ORDER BY est_walk ASC
		LIMIT 100
	`, from.Lon, from.Lat, to.Lon, to.Lat, radiusM, interPatternM)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.TransferCandidate
	for rows.Next() {
		var firstID, secondID string
		var tc engine.TransferCandidate
		if err := rows.Scan(&firstID, &secondID, &tc.TransferPoint.Lat, &tc.TransferPoint.Lon); err != nil {
			return nil, err
		}
		first, err := s.patternByID(ctx, firstID)
		if err != nil {
			return nil, err
		}
		second, err := s.patternByID(ctx, secondID)
		if err != nil {
			return nil, err
		}
		tc.First, tc.Second = *first, *second
		out = append(out, tc)
	}
	return out, rows.Err()
}

// GeomTripleTransfer extends GeomTransfer by one more hop, chaining three
// distinct-line patterns through two closest-point transfers.
func (s *Store) GeomTripleTransfer(ctx context.Context, from, to geo.Point, radiusM, interPatternM float64) ([]engine.TripleTransferCandidate, error) {
	rows, err := s.db.Query(ctx, `
		WITH origin_patterns AS (
			SELECT p.id, p.line_id, p.geometry
			FROM patterns p JOIN lines l ON l.id = p.line_id
			WHERE l.active AND ST_DWithin(p.geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $5)
		),
		dest_patterns AS (
			SELECT p.id, p.line_id, p.geometry
			FROM patterns p JOIN lines l ON l.id = p.line_id
			WHERE l.active AND ST_DWithin(p.geometry, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5)
		),
		middle_patterns AS (
			SELECT id, line_id, geometry FROM patterns WHERE line_id IN (SELECT line_id FROM origin_patterns)
			UNION
			SELECT p.id, p.line_id, p.geometry FROM patterns p JOIN lines l ON l.id = p.line_id WHERE l.active
		)
		SELECT DISTINCT ON (op.id, mp.id, dp.id)
		       op.id, mp.id, dp.id,
		       ST_Y(ST_ClosestPoint(op.geometry, mp.geometry)::geometry),
		       ST_X(ST_ClosestPoint(op.geometry, mp.geometry)::geometry),
		       ST_Y(ST_ClosestPoint(mp.geometry, dp.geometry)::geometry),
		       ST_X(ST_ClosestPoint(mp.geometry, dp.geometry)::geometry)
		FROM origin_patterns op
		JOIN middle_patterns mp ON op.line_id <> mp.line_id AND ST_DWithin(op.geometry, mp.geometry, $6)
		JOIN dest_patterns dp ON dp.line_id <> mp.line_id AND dp.line_id <> op.line_id AND ST_DWithin(mp.geometry, dp.geometry, $6)
		ORDER BY op.id, mp.id, dp.id
		LIMIT 50
	`, from.Lon, from.Lat, to.Lon, to.Lat, radiusM, interPatternM)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.TripleTransferCandidate
	for rows.Next() {
		var firstID, secondID, thirdID string
		var tc engine.TripleTransferCandidate
		if err := rows.Scan(&firstID, &secondID, &thirdID,
			&tc.FirstTransfer.Lat, &tc.FirstTransfer.Lon, &tc.SecondTransfer.Lat, &tc.SecondTransfer.Lon); err != nil {
			return nil, err
		}
		first, err := s.patternByID(ctx, firstID)
		if err != nil {
			return nil, err
		}
		second, err := s.patternByID(ctx, secondID)
		if err != nil {
			return nil, err
		}
		third, err := s.patternByID(ctx, thirdID)
		if err != nil {
			return nil, err
		}
		tc.First, tc.Second, tc.Third = *first, *second, *third
		out = append(out, tc)
	}
	return out, rows.Err()
}

// PatternGeometry loads a pattern's ordered polyline, the Go equivalent of
// an ST_DumpPoints walk over the pattern's shape.
func (s *Store) PatternGeometry(ctx context.Context, patternID string) ([]geo.Point, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ST_Y((dp).geom), ST_X((dp).geom)
		FROM (SELECT ST_DumpPoints(geometry::geometry) AS dp FROM patterns WHERE id = $1) d
		ORDER BY (dp).path
	`, patternID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []geo.Point
	for rows.Next() {
		var p geo.Point
		if err := rows.Scan(&p.Lat, &p.Lon); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *Store) StopByID(ctx context.Context, id int64) (*engine.Stop, error) {
	var st engine.Stop
	err := s.db.QueryRow(ctx, `
		SELECT id, name, ST_Y(location::geometry), ST_X(location::geometry), active
		FROM stops WHERE id = $1
	`, id).Scan(&st.ID, &st.Name, &st.Point.Lat, &st.Point.Lon, &st.Active)
	if IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) patternByID(ctx context.Context, id string) (*engine.Pattern, error) {
	var p engine.Pattern
	err := s.db.QueryRow(ctx, `
		SELECT p.id, l.id, l.short_name, l.long_name, COALESCE(l.color, '000000'), COALESCE(l.text_color, 'FFFFFF'),
		       l.mode, l.active, l.agency_name, p.sense
		FROM patterns p JOIN lines l ON l.id = p.line_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Line.ID, &p.Line.ShortName, &p.Line.LongName, &p.Line.Color, &p.Line.TextColor,
		&p.Line.Mode, &p.Line.Active, &p.Line.AgencyName, &p.Sense)
	if err != nil {
		return nil, err
	}
	geometry, err := s.PatternGeometry(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Geometry = geometry
	return &p, nil
}
