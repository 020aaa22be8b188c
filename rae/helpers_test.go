package rae

import "github.com/a-bouts/rae-server/latlon"

func latLon(lat, lon, alt float64) latlon.LatLon {
	return latlon.LatLon{Lat: lat, Lon: lon, Alt: alt}
}
