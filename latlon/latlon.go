package latlon

import (
	"math"

	"github.com/pkg/errors"
)

const π = math.Pi

// R is the mean Earth radius used by the spherical helpers.
const R = 6371e3

var (
	// ErrInvalidInput is returned for any geodetic input the conversions refuse.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidLatitude wraps ErrInvalidInput for latitudes outside [-90, 90].
	ErrInvalidLatitude = invalid("latitude out of [-90, 90]")
)

// LatLon is a geodetic position: degrees, and meters above the WGS-84 ellipsoid.
type LatLon struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
	Alt float64 `json:"alt" yaml:"alt"`
}

type invalidInput struct {
	msg string
}

func invalid(msg string) error {
	return &invalidInput{msg: msg}
}

func (e *invalidInput) Error() string { return ErrInvalidInput.Error() + ": " + e.msg }

func (e *invalidInput) Is(target error) bool { return target == ErrInvalidInput }

// Validate rejects latitudes outside [-90, 90] and non finite values.
// Longitude is not normalized: any finite value is accepted.
func (p LatLon) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return errors.Wrapf(ErrInvalidLatitude, "lat %v", p.Lat)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return errors.Wrapf(invalid("longitude not finite"), "lon %v", p.Lon)
	}
	if math.IsNaN(p.Alt) || math.IsInf(p.Alt, 0) {
		return errors.Wrapf(invalid("altitude not finite"), "alt %v", p.Alt)
	}
	return nil
}

// ToRadians converts degrees to radians.
func ToRadians(a float64) float64 {
	return a / 180.0 * π
}

// ToDegrees converts radians to degrees.
func ToDegrees(a float64) float64 {
	return a * 180.0 / π
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// Wrap180 brings a longitude into [-180, 180). Only used for display.
func Wrap180(lon float64) float64 {
	if -180.0 <= lon && lon < 180.0 {
		return lon
	}
	return wrap360(lon+180.0) - 180.0
}
