// Package wgs84 holds the WGS-84 reference ellipsoid.
package wgs84

import "math"

const (
	// A is the semi-major axis in meters.
	A = 6378137.0
	// B is the semi-minor axis in meters.
	B = 6356752.314245

	// BA2 is b²/a².
	BA2 = (B * B) / (A * A)
	// E2 is the first eccentricity squared, 1 - b²/a².
	E2 = 1 - BA2
)

// PrimeVerticalRadius returns N(φ), the radius of curvature in the prime
// vertical at latitude φ (radians). It is positive and finite for every real φ.
func PrimeVerticalRadius(φ float64) float64 {
	sinφ := math.Sin(φ)
	return A / math.Sqrt(1-E2*sinφ*sinφ)
}
