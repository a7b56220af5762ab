package game

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// GeoPoint is a WGS 84 coordinate in degrees, latitude first.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Valid reports whether p lies within the latitude and longitude ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// UpstreamGeo is the coordinate tuple as the content provider stores it:
// longitude first, then latitude.
type UpstreamGeo []float64

// Point converts the provider tuple to a GeoPoint. A missing or short tuple
// yields (0,0).
func (g UpstreamGeo) Point() GeoPoint {
	if len(g) < 2 {
		return GeoPoint{}
	}
	return GeoPoint{Lat: g[1], Lon: g[0]}
}

// Distance returns the haversine great-circle distance between a and b in
// kilometres.
func Distance(a, b GeoPoint) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
