package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

func TestFormatLatLng(t *testing.T) {
	cases := []struct {
		p    orb.Point
		want string
	}{
		{orb.Point{30.5234, 50.4501}, "50.45010, 30.52340"},
		{orb.Point{190, 0}, "0.00000, -170.00000"},
		{orb.Point{-540, 89}, "85.05113, -180.00000"},
	}
	for _, tc := range cases {
		if got := FormatLatLng(tc.p); got != tc.want {
			t.Errorf("FormatLatLng(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestTileAt(t *testing.T) {
	if got := TileAt(orb.Point{0.1, 0.1}, 1); got != (maptile.Tile{X: 1, Y: 0, Z: 1}) {
		t.Errorf("TileAt = %v", got)
	}
	if got := TileAt(orb.Point{10, 10}, -3); got.Z != 0 {
		t.Errorf("negative zoom not clamped: %v", got)
	}
}

func TestFormatHover(t *testing.T) {
	want := "0.10000, 0.10000 (tile 1/1/0)"
	if got := FormatHover(orb.Point{0.1, 0.1}, 1); got != want {
		t.Errorf("FormatHover = %q, want %q", got, want)
	}
}
