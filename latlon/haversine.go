package latlon

import "math"

// hav is the haversine of θ.
func hav(θ float64) float64 {
	s := math.Sin(θ / 2)
	return s * s
}

// DistanceTo returns the great-circle distance in meters between two
// positions on a sphere of radius R. Altitudes are ignored.
func DistanceTo(from, to LatLon) float64 {
	φ1, φ2 := ToRadians(from.Lat), ToRadians(to.Lat)
	h := hav(φ2-φ1) + math.Cos(φ1)*math.Cos(φ2)*hav(ToRadians(to.Lon-from.Lon))

	// Rounding can push h slightly past 1 for antipodes.
	return 2 * R * math.Asin(math.Sqrt(math.Min(h, 1)))
}

// BearingTo returns the initial great-circle bearing in degrees, [0, 360).
func BearingTo(from, to LatLon) float64 {
	φ1, φ2 := ToRadians(from.Lat), ToRadians(to.Lat)
	Δλ := ToRadians(to.Lon - from.Lon)

	north := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	east := math.Cos(φ2) * math.Sin(Δλ)

	return wrap360(ToDegrees(math.Atan2(east, north)))
}
