package geo

import "strings"

// EncodePolyline implements the standard Google polyline algorithm at
// precision 5: deltas are scaled by 1e5, zig-zag encoded, split into 5-bit
// chunks with a continuation bit on every non-final chunk, then offset by
// 63. Clients decode leg geometry with stock polyline libraries, so the
// output must stay byte-compatible with the reference algorithm.
func EncodePolyline(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	prevLat, prevLon := 0, 0

	for _, p := range points {
		lat := round1e5(p.Lat)
		lon := round1e5(p.Lon)

		encodeValue(&b, lat-prevLat)
		encodeValue(&b, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return b.String()
}

func round1e5(v float64) int {
	if v >= 0 {
		return int(v*1e5 + 0.5)
	}
	return int(v*1e5 - 0.5)
}

func encodeValue(b *strings.Builder, v int) {
	shifted := v << 1
	if v < 0 {
		shifted = ^shifted
	}
	for shifted >= 0x20 {
		b.WriteByte(byte((0x20 | (shifted & 0x1f)) + 63))
		shifted >>= 5
	}
	b.WriteByte(byte(shifted + 63))
}

// DecodePolyline reverses EncodePolyline. It is not used on the engine's
// request path but must round-trip any string EncodePolyline produces.
func DecodePolyline(encoded string) []Point {
	if encoded == "" {
		return nil
	}

	var points []Point
	index := 0
	lat, lon := 0, 0

	for index < len(encoded) {
		dLat := decodeValue(encoded, &index)
		lat += dLat
		dLon := decodeValue(encoded, &index)
		lon += dLon

		points = append(points, Point{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return points
}

func decodeValue(encoded string, index *int) int {
	shift, result := 0, 0
	for {
		b := int(encoded[*index]) - 63
		*index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1)
	}
	return result >> 1
}
