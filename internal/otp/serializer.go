// Package otp converts engine.Plan values into the OTP-compatible wire
// schema external clients bind to. Nothing here touches the store or the
// planning algorithm; it is a pure, one-directional translation layer.
package otp

import (
	"github.com/antigravity/micro-route-planner/internal/engine"
	"github.com/antigravity/micro-route-planner/internal/geo"
)

// Place is a named point on the wire.
type Place struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	VertexType string  `json:"vertexType"`
}

// LegGeometry is the encoded-polyline envelope carried on every Leg.
type LegGeometry struct {
	Points string `json:"points"`
	Length int    `json:"length"`
}

// Leg is one wire-schema leg of an Itinerary.
type Leg struct {
	Mode              string        `json:"mode"`
	StartTime         int64         `json:"startTime"`
	EndTime           int64         `json:"endTime"`
	Duration          float64       `json:"duration"`
	Distance          float64       `json:"distance"`
	From              Place         `json:"from"`
	To                Place         `json:"to"`
	Route             string        `json:"route,omitempty"`
	RouteID           string        `json:"routeId,omitempty"`
	RouteShortName    string        `json:"routeShortName,omitempty"`
	RouteLongName     string        `json:"routeLongName,omitempty"`
	RouteColor        string        `json:"routeColor,omitempty"`
	RouteTextColor    string        `json:"routeTextColor,omitempty"`
	AgencyName        string        `json:"agencyName,omitempty"`
	LegGeometry       LegGeometry   `json:"legGeometry"`
	RentedBike        bool          `json:"rentedBike"`
	TransitLeg        bool          `json:"transitLeg"`
	RealTime          bool          `json:"realTime"`
	Pathway           bool          `json:"pathway"`
	IntermediateStops []interface{} `json:"intermediateStops"`
}

// Itinerary is one wire-schema itinerary.
type Itinerary struct {
	Legs            []Leg   `json:"legs"`
	StartTime       int64   `json:"startTime"`
	EndTime         int64   `json:"endTime"`
	Duration        int     `json:"duration"`
	WalkTime        int     `json:"walkTime"`
	WalkDistance    float64 `json:"walkDistance"`
	Transfers       int     `json:"transfers"`
	TransitTime     int     `json:"transitTime"`
	WaitingTime     int     `json:"waitingTime"`
	ElevationLost   float64 `json:"elevationLost"`
	ElevationGained float64 `json:"elevationGained"`
	TooSloped       bool    `json:"tooSloped"`
}

// Plan is the wire-schema plan body.
type Plan struct {
	Itineraries []Itinerary `json:"itineraries"`
	Date        int64       `json:"date"`
	From        Place       `json:"from"`
	To          Place       `json:"to"`
}

// Response is the full envelope returned by the plan endpoint.
type Response struct {
	Plan              Plan                   `json:"plan"`
	RequestParameters map[string]interface{} `json:"requestParameters"`
}

// FromEnginePlan converts an engine.Plan into the wire envelope.
func FromEnginePlan(p engine.Plan) Response {
	itineraries := make([]Itinerary, len(p.Itineraries))
	for i, it := range p.Itineraries {
		itineraries[i] = fromItinerary(it)
	}
	return Response{
		Plan: Plan{
			Itineraries: itineraries,
			Date:        p.DateMS,
			From:        fromPlace(p.From),
			To:          fromPlace(p.To),
		},
		RequestParameters: map[string]interface{}{},
	}
}

func fromItinerary(it engine.Itinerary) Itinerary {
	legs := make([]Leg, len(it.Legs))
	for i, l := range it.Legs {
		legs[i] = fromLeg(l)
	}
	return Itinerary{
		Legs:         legs,
		StartTime:    it.StartTimeMS,
		EndTime:      it.EndTimeMS,
		Duration:     it.DurationSec,
		WalkTime:     it.WalkTimeSec,
		WalkDistance: it.WalkDistanceM,
		Transfers:    it.Transfers,
		TransitTime:  it.TransitSec,
		WaitingTime:  it.WaitingSec,
	}
}

func fromLeg(l engine.Leg) Leg {
	return Leg{
		Mode:           string(l.Mode),
		StartTime:      l.StartTimeMS,
		EndTime:        l.EndTimeMS,
		Duration:       float64(l.DurationSec),
		Distance:       l.DistanceM,
		From:           fromPlace(l.From),
		To:             fromPlace(l.To),
		Route:          l.Route.Route,
		RouteID:        l.Route.RouteID,
		RouteShortName: l.Route.RouteShortName,
		RouteLongName:  l.Route.RouteLongName,
		RouteColor:     l.Route.RouteColor,
		RouteTextColor: l.Route.RouteTextColor,
		AgencyName:     l.Route.AgencyName,
		LegGeometry: LegGeometry{
			Points: geo.EncodePolyline(l.Geometry),
			Length: len(l.Geometry),
		},
		RentedBike:        false,
		TransitLeg:        l.Mode == engine.ModeBus,
		RealTime:          false,
		Pathway:           false,
		IntermediateStops: []interface{}{},
	}
}

func fromPlace(p engine.Place) Place {
	return Place{
		Name:       p.Name,
		Lat:        p.Point.Lat,
		Lon:        p.Point.Lon,
		VertexType: "NORMAL",
	}
}
