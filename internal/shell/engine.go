package shell

import (
	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/control"
	"github.com/woozymasta/geoview/internal/layer"

	"github.com/paulmach/orb"
)

// Engine is the rendering library seen from the shell.
type Engine interface {
	// Init creates the map with its initial view and background.
	Init(view config.Viewport, basemap config.Basemap) error
	AddScale(scale config.Scale) error
	// AddLayer puts a named overlay on the map, shown when visible is set.
	AddLayer(name string, l *layer.Layer, visible bool) error
	// AddControl attaches the layer selector. Overlays the engine has not
	// seen yet are created from the control entries.
	AddControl(c *control.Control) error
	PlaceMarker(id string, at orb.Point, popup string, style layer.Style) error
	RemoveMarker(id string) error
	Zoom() int

	OnClick(fn func(orb.Point))
	OnHover(fn func(orb.Point))
	OnBasemapChange(fn func(name string))
	OnOverlayToggle(fn func(name string, visible bool))
}

// Readout receives coordinate text for a DOM element.
type Readout interface {
	SetText(element, text string)
}

// Onboarding hides the hint element shown on load.
type Onboarding interface {
	Hide(element string)
}
