package geomath

import (
	"errors"
	"fmt"

	"github.com/paulcager/osgridref"
)

var ErrInvalidPosition = errors.New("position out of range")

// FromGridReference converts an OS grid reference ("TQ 30080 80500" or "530080,180500")
// into WGS84 degrees
func FromGridReference(reference string) (LatLon, error) {
	gridRef, err := osgridref.ParseOsGridRef(reference)
	if err != nil {
		return LatLon{}, fmt.Errorf("parse grid reference %q: %w", reference, err)
	}

	lat, lon := gridRef.ToLatLon()
	position := LatLon{Latitude: lat, Longitude: lon}

	if !position.Valid() {
		return LatLon{}, ErrInvalidPosition
	}

	return position, nil
}
