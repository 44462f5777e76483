// Package control assembles the layer selector shown on the map.
package control

import (
	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/layer"
)

// Input is how an item is presented in the selector.
type Input string

// Selector inputs.
const (
	InputRadio    Input = "radio"
	InputCheckbox Input = "checkbox"
)

// Base is a mutually exclusive background choice.
type Base struct {
	Basemap  config.Basemap
	Selected bool
}

// Overlay is an independently toggled layer.
type Overlay struct {
	Layer   *layer.Layer
	Name    string
	Visible bool
}

// Item is one row of the selector.
type Item struct {
	Name    string
	Input   Input
	Checked bool
}

// Control is the assembled layer selector.
type Control struct {
	Position  string
	Basemaps  []Base
	Overlays  []Overlay
	Collapsed bool
}

// Options carries presentation settings for Assemble.
type Options struct {
	// Visible lists overlays shown when the control is attached.
	Visible   map[string]bool
	Position  string
	Collapsed bool
}

// Assemble builds the selector from the ordered layer mapping and the basemaps.
// Exactly one basemap starts selected: the configured default or the first.
func Assemble(mapping *layer.GroupMapping, basemaps []config.Basemap, opts Options) (*Control, error) {
	c := &Control{
		Position:  opts.Position,
		Collapsed: opts.Collapsed,
		Basemaps:  make([]Base, 0, len(basemaps)),
	}

	names := make(map[string]struct{}, len(basemaps)+mapping.Len())

	selected := -1
	for i, b := range basemaps {
		if _, ok := names[b.Name]; ok {
			return nil, &layer.ConfigurationError{Name: b.Name, Reason: "duplicate basemap name"}
		}
		names[b.Name] = struct{}{}

		if b.Default && selected < 0 {
			selected = i
		}
		c.Basemaps = append(c.Basemaps, Base{Basemap: b})
	}
	if selected < 0 {
		selected = 0
	}
	if len(c.Basemaps) > 0 {
		c.Basemaps[selected].Selected = true
	}

	entries := mapping.Entries()
	c.Overlays = make([]Overlay, 0, len(entries))
	for _, e := range entries {
		if _, ok := names[e.Name]; ok {
			return nil, &layer.ConfigurationError{Name: e.Name, Reason: "overlay name clashes with a basemap"}
		}
		names[e.Name] = struct{}{}

		c.Overlays = append(c.Overlays, Overlay{
			Name:    e.Name,
			Layer:   e.Layer,
			Visible: opts.Visible[e.Name],
		})
	}

	return c, nil
}

// Items lists the selector rows: basemaps first, then overlays, each in order.
func (c *Control) Items() []Item {
	items := make([]Item, 0, len(c.Basemaps)+len(c.Overlays))
	for _, b := range c.Basemaps {
		items = append(items, Item{Name: b.Basemap.Name, Input: InputRadio, Checked: b.Selected})
	}
	for _, o := range c.Overlays {
		items = append(items, Item{Name: o.Name, Input: InputCheckbox, Checked: o.Visible})
	}
	return items
}

// SelectBasemap makes name the only selected basemap.
func (c *Control) SelectBasemap(name string) bool {
	found := false
	for i := range c.Basemaps {
		if c.Basemaps[i].Basemap.Name == name {
			found = true
		}
	}
	if !found {
		return false
	}
	for i := range c.Basemaps {
		c.Basemaps[i].Selected = c.Basemaps[i].Basemap.Name == name
	}
	return true
}

// SetOverlay shows or hides one overlay without touching the others.
func (c *Control) SetOverlay(name string, visible bool) bool {
	for i := range c.Overlays {
		if c.Overlays[i].Name == name {
			c.Overlays[i].Visible = visible
			return true
		}
	}
	return false
}

// SelectedBasemap returns the selected basemap.
func (c *Control) SelectedBasemap() (config.Basemap, bool) {
	for _, b := range c.Basemaps {
		if b.Selected {
			return b.Basemap, true
		}
	}
	return config.Basemap{}, false
}
