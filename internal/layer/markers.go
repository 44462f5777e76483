package layer

import "github.com/paulmach/orb"

// Marker is a point placed from configuration rather than fetched.
type Marker struct {
	Popup string     `yaml:"popup" json:"popup"`
	At    [2]float64 `yaml:"at"    json:"at"` // [lat, lng]
}

// Point returns the marker position in orb's lon/lat order.
func (m Marker) Point() orb.Point {
	return orb.Point{m.At[1], m.At[0]}
}

// FromMarkers builds a point layer synchronously from configured markers.
func FromMarkers(markers []Marker, style Style) *Layer {
	l := &Layer{Style: style, Features: make([]Feature, 0, len(markers))}
	for _, m := range markers {
		popup := m.Popup
		if popup == "" {
			popup = Placeholder
		}
		l.add(Feature{Geometry: m.Point(), Popup: popup})
	}
	return l
}
