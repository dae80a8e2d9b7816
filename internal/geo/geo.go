// Package geo provides the distance math behind nearby search.
package geo

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371008.8

// DefaultMaxDistance is the search radius used when a caller does not send one.
const DefaultMaxDistance = 10000.0

// Point is a WGS84 coordinate.
type Point struct {
	Lon float64
	Lat float64
}

// Validate checks the coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// Box is a coordinate-aligned bounding box.
type Box struct {
	MinLon, MaxLon float64
	MinLat, MaxLat float64
}

// CrossesAntimeridian reports whether the box wraps past ±180° longitude, in
// which case MinLon > MaxLon and a longitude matches if it is >= MinLon or <= MaxLon.
func (b Box) CrossesAntimeridian() bool {
	return b.MinLon > b.MaxLon
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLat := lat2 - lat1
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox returns a box that contains every point within radius meters of center.
func BoundingBox(center Point, radius float64) Box {
	angular := radius / EarthRadiusMeters
	lat := toRad(center.Lat)

	minLat := toDeg(lat - angular)
	maxLat := toDeg(lat + angular)

	if minLat <= -90 || maxLat >= 90 {
		return Box{MinLon: -180, MaxLon: 180, MinLat: math.Max(minLat, -90), MaxLat: math.Min(maxLat, 90)}
	}

	dLon := toDeg(math.Asin(math.Sin(angular) / math.Cos(lat)))
	minLon := center.Lon - dLon
	maxLon := center.Lon + dLon
	if minLon < -180 {
		minLon += 360
	}
	if maxLon > 180 {
		maxLon -= 360
	}
	return Box{MinLon: minLon, MaxLon: maxLon, MinLat: minLat, MaxLat: maxLat}
}
