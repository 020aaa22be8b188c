// Package rae converts a local tangent-plane offset into range, azimuth and
// elevation as seen from the reference point.
package rae

import (
	"math"

	"github.com/a-bouts/rae-server/enu"
	"github.com/a-bouts/rae-server/latlon"
)

const twoπ = 2 * math.Pi

// Measurement is a range in meters, and azimuth and elevation in radians.
// Azimuth is clockwise from north, in [0, 2π). Elevation is in [-π/2, π/2].
type Measurement struct {
	Range     float64 `json:"range"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
}

// AzimuthDeg returns the azimuth in degrees.
func (m Measurement) AzimuthDeg() float64 {
	return latlon.ToDegrees(m.Azimuth)
}

// ElevationDeg returns the elevation in degrees.
func (m Measurement) ElevationDeg() float64 {
	return latlon.ToDegrees(m.Elevation)
}

// FromOffset converts an offset to a measurement.
func FromOffset(o enu.Offset) Measurement {
	r, az, el := ENUToRAE(o.North, o.East, o.Up)
	return Measurement{Range: r, Azimuth: az, Elevation: el}
}

// ENUToRAE converts the north, east and up components of an offset.
//
// A zero offset gives (0, 0, 0). A target on the local vertical gives an
// azimuth of 0 and an elevation of ±π/2.
func ENUToRAE(n, e, u float64) (rng, az, el float64) {
	horizontal := math.Hypot(n, e)
	rng = math.Hypot(horizontal, u)
	if rng == 0 {
		return 0, 0, 0
	}

	if horizontal == 0 {
		return rng, 0, math.Copysign(math.Pi/2, u)
	}

	az = wrap2π(math.Atan2(e, n))
	el = math.Atan2(u, horizontal)

	return rng, az, el
}

func wrap2π(a float64) float64 {
	a = math.Mod(a, twoπ)
	if a < 0 {
		a += twoπ
	}
	// -0 and values rounding up to 2π.
	if a == 0 || a >= twoπ {
		return 0
	}
	return a
}
