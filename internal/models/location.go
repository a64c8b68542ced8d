package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLocation is returned for coordinates outside the valid
// latitude/longitude ranges. It is the only error surfaced to callers
// of the forecast service.
var ErrInvalidLocation = errors.New("invalid location")

// Location is a geographic point in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.4f out of range [-90, 90]", ErrInvalidLocation, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.4f out of range [-180, 180]", ErrInvalidLocation, l.Longitude)
	}
	return nil
}

// NormalizedLongitude wraps the longitude into [-180, 180). Crossing the
// antimeridian is not an error; computations normalize before use.
func (l Location) NormalizedLongitude() float64 {
	lng := math.Mod(l.Longitude+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
