// Package enu converts geodetic positions into a local tangent-plane offset
// from a reference point, through Earth-Centered-Earth-Fixed coordinates.
package enu

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/a-bouts/rae-server/latlon"
	"github.com/a-bouts/rae-server/wgs84"
)

// Ecef is a position in meters, Earth-Centered-Earth-Fixed.
type Ecef struct {
	X, Y, Z float64
}

// Sub returns e - o.
func (e Ecef) Sub(o Ecef) Ecef {
	return Ecef{X: e.X - o.X, Y: e.Y - o.Y, Z: e.Z - o.Z}
}

// Offset is a target offset in meters in the reference's local tangent plane.
type Offset struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	Up    float64 `json:"up"`
}

// ToECEF converts a geodetic position to ECEF. p is not validated.
func ToECEF(p latlon.LatLon) Ecef {
	φ := latlon.ToRadians(p.Lat)
	λ := latlon.ToRadians(p.Lon)
	h := p.Alt

	N := wgs84.PrimeVerticalRadius(φ)

	return Ecef{
		X: (N + h) * math.Cos(φ) * math.Cos(λ),
		Y: (N + h) * math.Cos(φ) * math.Sin(λ),
		Z: (wgs84.BA2*N + h) * math.Sin(φ),
	}
}

// Rotation returns the ECEF to local tangent-plane matrix at latitude φ and
// longitude λ (radians). Rows give north, east and up.
func Rotation(φ, λ float64) *mat.Dense {
	sinφ, cosφ := math.Sin(φ), math.Cos(φ)
	sinλ, cosλ := math.Sin(λ), math.Cos(λ)

	return mat.NewDense(3, 3, []float64{
		-sinφ * cosλ, -sinφ * sinλ, cosφ,
		-sinλ, cosλ, 0,
		cosφ * cosλ, cosφ * sinλ, sinφ,
	})
}

// Rotate applies r to an ECEF difference vector.
func Rotate(r mat.Matrix, d Ecef) Offset {
	var v mat.VecDense
	v.MulVec(r, mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))

	return Offset{North: v.AtVec(0), East: v.AtVec(1), Up: v.AtVec(2)}
}

// FromGeodetic returns the offset of tgt from ref in ref's local tangent plane.
// Both points are validated; the error wraps latlon.ErrInvalidInput.
func FromGeodetic(ref, tgt latlon.LatLon) (Offset, error) {
	if err := ref.Validate(); err != nil {
		return Offset{}, err
	}
	if err := tgt.Validate(); err != nil {
		return Offset{}, err
	}

	Δ := ToECEF(tgt).Sub(ToECEF(ref))
	r := Rotation(latlon.ToRadians(ref.Lat), latlon.ToRadians(ref.Lon))

	return Rotate(r, Δ), nil
}

// GeodeticToENU is FromGeodetic over scalars. Angles in degrees, altitudes
// and results in meters.
func GeodeticToENU(refLat, refLon, refAlt, tgtLat, tgtLon, tgtAlt float64) (n, e, u float64, err error) {
	o, err := FromGeodetic(
		latlon.LatLon{Lat: refLat, Lon: refLon, Alt: refAlt},
		latlon.LatLon{Lat: tgtLat, Lon: tgtLon, Alt: tgtAlt},
	)
	if err != nil {
		return 0, 0, 0, err
	}
	return o.North, o.East, o.Up, nil
}
