package layer

// Style is applied uniformly to every feature of a layer.
// Field names follow Leaflet path options.
type Style struct {
	Color       string  `yaml:"color,omitempty"        json:"color,omitempty"`
	FillColor   string  `yaml:"fill_color,omitempty"   json:"fillColor,omitempty"`
	DashArray   string  `yaml:"dash_array,omitempty"   json:"dashArray,omitempty"`
	Weight      float64 `yaml:"weight,omitempty"       json:"weight,omitempty"`
	Opacity     float64 `yaml:"opacity,omitempty"      json:"opacity,omitempty"`
	FillOpacity float64 `yaml:"fill_opacity,omitempty" json:"fillOpacity,omitempty"`

	// Icon is the marker icon color used for point features; empty means Color.
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// DefaultColor is used when neither Color nor Icon is set.
const DefaultColor = "3388ff"

// IconColor returns the hex color (without '#') of point markers.
func (s Style) IconColor() string {
	c := s.Icon
	if c == "" {
		c = s.Color
	}
	if c == "" {
		return DefaultColor
	}
	if c[0] == '#' {
		return c[1:]
	}
	return c
}
