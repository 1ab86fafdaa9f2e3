package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePolylineEmpty(t *testing.T) {
	assert.Equal(t, "", EncodePolyline(nil))
	assert.Equal(t, "", EncodePolyline([]Point{}))
}

func TestEncodePolylineKnownVector(t *testing.T) {
	// The canonical example from Google's polyline algorithm documentation.
	points := []Point{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", EncodePolyline(points))
}

func TestPolylineRoundTrip(t *testing.T) {
	cases := [][]Point{
		{{Lat: -17.7833, Lon: -63.1821}, {Lat: -17.7512, Lon: -63.1755}},
		{{Lat: 0, Lon: 0}},
		{{Lat: -33.456, Lon: 70.1}, {Lat: -33.457, Lon: 70.11}, {Lat: -33.46, Lon: 70.2}},
	}

	for _, pts := range cases {
		encoded := EncodePolyline(pts)
		decoded := DecodePolyline(encoded)
		require.Len(t, decoded, len(pts))
		for i := range pts {
			assert.InDelta(t, pts[i].Lat, decoded[i].Lat, 1e-5)
			assert.InDelta(t, pts[i].Lon, decoded[i].Lon, 1e-5)
		}
		assert.Equal(t, encoded, EncodePolyline(decoded))
	}
}
