package model

import (
	"github.com/a-bouts/rae-server/enu"
	"github.com/a-bouts/rae-server/latlon"
	"github.com/a-bouts/rae-server/rae"
	"github.com/a-bouts/rae-server/track"
)

type Conversion struct {
	Reference latlon.LatLon `json:"reference"`
	Target    latlon.LatLon `json:"target"`
}

// Ground is the great-circle distance (meters) and initial bearing (degrees)
// from reference to target.
type Ground struct {
	Distance float64 `json:"distance"`
	Bearing  float64 `json:"bearing"`
}

type Result struct {
	ENU    enu.Offset       `json:"enu"`
	RAE    *rae.Measurement `json:"rae,omitempty"`
	Ground *Ground          `json:"ground,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type TrackResult struct {
	track.Track
	Result
}

type Error struct {
	Error string `json:"error"`
}
