package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Precision is the number of decimals shown in coordinate readouts (about 1 m).
const Precision = 5

// FormatLatLng renders p as "lat, lng".
func FormatLatLng(p orb.Point) string {
	p = Normalize(p)
	return fmt.Sprintf("%.*f, %.*f", Precision, p.Lat(), Precision, p.Lon())
}

// FormatHover renders p together with the tile under it at zoom z.
func FormatHover(p orb.Point, z int) string {
	t := TileAt(p, z)
	return fmt.Sprintf("%s (tile %d/%d/%d)", FormatLatLng(p), t.Z, t.X, t.Y)
}
