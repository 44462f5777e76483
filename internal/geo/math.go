// Package geo handles coordinate conversions and readout formatting.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// MaxLat is the latitude limit of the Web Mercator projection.
const MaxLat = 85.05112878

// ClampLat limits lat to the range Web Mercator can project.
func ClampLat(lat float64) float64 {
	if lat > MaxLat {
		return MaxLat
	} else if lat < -MaxLat {
		return -MaxLat
	}
	return lat
}

// WrapLon brings lon into [-180, 180). Pointer events report unwrapped
// longitudes once the map has been panned around the antimeridian.
func WrapLon(lon float64) float64 {
	w := math.Mod(lon+180, 360)
	if w < 0 {
		w += 360
	}
	return w - 180
}

// Normalize wraps the longitude and clamps the latitude of p.
func Normalize(p orb.Point) orb.Point {
	return orb.Point{WrapLon(p.Lon()), ClampLat(p.Lat())}
}

// TileAt returns the slippy map tile containing p at zoom z.
func TileAt(p orb.Point, z int) maptile.Tile {
	if z < 0 {
		z = 0
	}
	return maptile.At(Normalize(p), maptile.Zoom(z))
}
