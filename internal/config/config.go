// Package config handles configuration loading and shared data structures.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/geoview/internal/layer"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string          `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Basemaps    []Basemap       `yaml:"basemaps"              json:"basemaps"`
	Layers      []Layer         `yaml:"layers,omitempty"      json:"layers,omitempty"`
	Markers     MarkerGroup     `yaml:"markers,omitempty"     json:"markers"`
	Viewport    Viewport        `yaml:"viewport"              json:"viewport"`
	Scale       Scale           `yaml:"scale,omitempty"       json:"scale"`
	Control     Control         `yaml:"control,omitempty"     json:"control"`
	Readout     Readout         `yaml:"readout,omitempty"     json:"readout"`
	Onboarding  Onboarding      `yaml:"onboarding,omitempty"  json:"onboarding"`
	Transient   TransientMarker `yaml:"transient,omitempty"   json:"transient"`
}

// Basemap is one tile layer selectable as the map background.
type Basemap struct {
	Name        string `yaml:"name"                  json:"name"`
	URL         string `yaml:"url"                   json:"url"`
	Attribution string `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	MaxZoom     int    `yaml:"max_zoom,omitempty"    json:"maxZoom,omitempty"`
	Default     bool   `yaml:"default,omitempty"     json:"default,omitempty"`
}

// Layer describes one external geographic data source to load.
type Layer struct {
	Name    string       `yaml:"name"              json:"name"`
	Label   string       `yaml:"label"             json:"label"`
	Source  string       `yaml:"source"            json:"source"`
	Filter  string       `yaml:"filter,omitempty"  json:"filter,omitempty"`
	Format  layer.Format `yaml:"format,omitempty"  json:"format,omitempty"`
	Style   layer.Style  `yaml:"style,omitempty"   json:"style"`
	Visible bool         `yaml:"visible,omitempty" json:"visible,omitempty"`
}

// MarkerGroup is the pre-built point layer shown before any source is fetched.
type MarkerGroup struct {
	Name    string         `yaml:"name,omitempty"  json:"name"`
	Style   layer.Style    `yaml:"style,omitempty" json:"style"`
	Markers []layer.Marker `yaml:"items,omitempty" json:"items,omitempty"`
}

// Viewport is the initial map view.
type Viewport struct {
	Center [2]float64 `yaml:"center" json:"center"` // [lat, lng]
	Zoom   int        `yaml:"zoom"   json:"zoom"`
}

// Scale configures the scale bar.
type Scale struct {
	Position string `yaml:"position,omitempty"  json:"position"`
	MaxWidth int    `yaml:"max_width,omitempty" json:"maxWidth"`
	Metric   bool   `yaml:"metric,omitempty"    json:"metric"`
	Imperial bool   `yaml:"imperial,omitempty"  json:"imperial"`
}

// Control configures the layer selector.
type Control struct {
	Position  string `yaml:"position,omitempty"  json:"position"`
	Collapsed bool   `yaml:"collapsed,omitempty" json:"collapsed"`
}

// Readout names the DOM elements receiving coordinate text.
type Readout struct {
	Click string `yaml:"click,omitempty" json:"click"`
	Hover string `yaml:"hover,omitempty" json:"hover"`
}

// Onboarding is the hint shown on load and hidden after Delay.
type Onboarding struct {
	Element string        `yaml:"element,omitempty" json:"element"`
	Delay   time.Duration `yaml:"delay,omitempty"   json:"delay"`
}

// TransientMarker is the user placed "possible location" marker.
type TransientMarker struct {
	Popup string      `yaml:"popup,omitempty" json:"popup"`
	Style layer.Style `yaml:"style,omitempty" json:"style"`
}

// Defaults applied by Normalize.
const (
	DefaultMarkersName     = "Markers"
	DefaultControlPosition = "topright"
	DefaultScalePosition   = "bottomleft"
	DefaultScaleWidth      = 100
	DefaultClickElement    = "click-coords"
	DefaultHoverElement    = "hover-coords"
	DefaultOnboardElement  = "onboarding"
	DefaultOnboardDelay    = 5 * time.Second
	DefaultLabelAttribute  = "name"
	DefaultTransientPopup  = "Possible location"
)

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Decode parses the JSON form published to the viewer by the server.
func Decode(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Normalize fills unset optional fields with defaults.
func (c *Config) Normalize() {
	if c.Markers.Name == "" {
		c.Markers.Name = DefaultMarkersName
	}
	if c.Control.Position == "" {
		c.Control.Position = DefaultControlPosition
	}
	if c.Scale.Position == "" {
		c.Scale.Position = DefaultScalePosition
	}
	if c.Scale.MaxWidth <= 0 {
		c.Scale.MaxWidth = DefaultScaleWidth
	}
	if !c.Scale.Metric && !c.Scale.Imperial {
		c.Scale.Metric = true
	}
	if c.Readout.Click == "" {
		c.Readout.Click = DefaultClickElement
	}
	if c.Readout.Hover == "" {
		c.Readout.Hover = DefaultHoverElement
	}
	if c.Onboarding.Element == "" {
		c.Onboarding.Element = DefaultOnboardElement
	}
	if c.Onboarding.Delay <= 0 {
		c.Onboarding.Delay = DefaultOnboardDelay
	}
	if c.Transient.Popup == "" {
		c.Transient.Popup = DefaultTransientPopup
	}

	for i := range c.Basemaps {
		if c.Basemaps[i].Attribution == "" {
			c.Basemaps[i].Attribution = c.Attribution
		}
	}

	for i := range c.Layers {
		l := &c.Layers[i]
		if l.Label == "" {
			l.Label = DefaultLabelAttribute
		}
		if l.Format == "" {
			l.Format = layer.DetectFormat(l.Source)
		}
	}
}

// Validate checks what the viewer cannot start without.
// Duplicate layer names are left to the layer pipeline.
func (c *Config) Validate() error {
	if len(c.Basemaps) == 0 {
		return fmt.Errorf("no basemaps configured")
	}
	for i, b := range c.Basemaps {
		if b.Name == "" || b.URL == "" {
			return fmt.Errorf("basemap %d: name and url are required", i)
		}
	}
	for i, l := range c.Layers {
		if l.Name == "" || l.Source == "" {
			return fmt.Errorf("layer %d: name and source are required", i)
		}
	}
	return nil
}

// DefaultBasemap returns the basemap marked default, or the first one.
func (c *Config) DefaultBasemap() Basemap {
	for _, b := range c.Basemaps {
		if b.Default {
			return b
		}
	}
	return c.Basemaps[0]
}
