// Package geo georeferences particle sources. Outdoor dispersion configs
// give a source origin as WGS84 lon/lat; we project it to EPSG:3857 meters
// and fold the result into the source translation, so the emitted particle
// coordinates line up with web-mercator terrain and building meshes.
package geo

import (
	"errors"
	"fmt"

	"github.com/wroge/wgs84"

	"github.com/partseed/partseed/pkg/core"
)

// ErrInvalidAnchor is returned when anchor coordinates are out of range.
var ErrInvalidAnchor = errors.New("invalid anchor coordinates")

// Anchor3857 projects a WGS84 lon/lat anchor to planar EPSG:3857 meters.
// The returned vector has z = 0; elevation stays in the source's own
// translation.
func Anchor3857(lon, lat float64) (core.Vec3, error) {
	if lon < -180 || lon > 180 {
		return core.Vec3{}, fmt.Errorf("%w: longitude %g out of [-180, 180]", ErrInvalidAnchor, lon)
	}
	// Web mercator diverges at the poles; cap at the conventional limit.
	if lat < -85.06 || lat > 85.06 {
		return core.Vec3{}, fmt.Errorf("%w: latitude %g out of [-85.06, 85.06]", ErrInvalidAnchor, lat)
	}

	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(lon, lat, 0)
	return core.Vec3{X: x, Y: y}, nil
}
