//go:build js && wasm

// Package leaflet renders the map shell through the Leaflet JavaScript library.
package leaflet

import (
	"fmt"
	"syscall/js"

	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/control"
	"github.com/woozymasta/geoview/internal/layer"
	"github.com/woozymasta/geoview/internal/shell"

	"github.com/paulmach/orb"
)

var _ shell.Engine = (*Engine)(nil)

// IconSize is the edge of point marker icons in CSS pixels.
const IconSize = 24

// Engine drives a Leaflet map living in one container element.
type Engine struct {
	l         js.Value
	m         js.Value
	basemaps  map[string]js.Value
	overlays  map[string]js.Value
	markers   map[string]js.Value
	container string
	iconBase  string
	funcs     []js.Func
}

// New returns an engine for the element with id container. Marker icons are
// loaded from iconBase + "/{color}.webp".
func New(container, iconBase string) *Engine {
	return &Engine{
		l:         js.Global().Get("L"),
		container: container,
		iconBase:  iconBase,
		basemaps:  make(map[string]js.Value),
		overlays:  make(map[string]js.Value),
		markers:   make(map[string]js.Value),
	}
}

// Init creates the map with its initial view and background.
func (e *Engine) Init(view config.Viewport, basemap config.Basemap) error {
	if e.l.IsUndefined() {
		return fmt.Errorf("leaflet is not loaded")
	}

	e.m = e.l.Call("map", e.container, map[string]interface{}{
		"center": latLng(view.Center[0], view.Center[1]),
		"zoom":   view.Zoom,
	})

	e.tileLayer(basemap).Call("addTo", e.m)
	return nil
}

// AddScale attaches the scale bar.
func (e *Engine) AddScale(scale config.Scale) error {
	e.l.Get("control").Call("scale", map[string]interface{}{
		"position": scale.Position,
		"maxWidth": scale.MaxWidth,
		"metric":   scale.Metric,
		"imperial": scale.Imperial,
	}).Call("addTo", e.m)
	return nil
}

// AddLayer puts a named overlay on the map.
func (e *Engine) AddLayer(name string, l *layer.Layer, visible bool) error {
	gl, err := e.geoJSON(l)
	if err != nil {
		return err
	}
	e.overlays[name] = gl
	if visible {
		gl.Call("addTo", e.m)
	}
	return nil
}

// AddControl attaches the layer selector, creating overlays not added yet.
func (e *Engine) AddControl(c *control.Control) error {
	// plain objects keep insertion order, Go maps passed to js.ValueOf do not
	bases := js.Global().Get("Object").New()
	for _, b := range c.Basemaps {
		tl, ok := e.basemaps[b.Basemap.Name]
		if !ok {
			tl = e.tileLayer(b.Basemap)
		}
		bases.Set(b.Basemap.Name, tl)
	}

	overlays := js.Global().Get("Object").New()
	for _, o := range c.Overlays {
		gl, ok := e.overlays[o.Name]
		if !ok {
			var err error
			if gl, err = e.geoJSON(o.Layer); err != nil {
				return fmt.Errorf("overlay %q: %w", o.Name, err)
			}
			e.overlays[o.Name] = gl
		}
		if o.Visible && !e.m.Call("hasLayer", gl).Bool() {
			gl.Call("addTo", e.m)
		}
		overlays.Set(o.Name, gl)
	}

	e.l.Get("control").Call("layers", bases, overlays, map[string]interface{}{
		"position":  c.Position,
		"collapsed": c.Collapsed,
	}).Call("addTo", e.m)
	return nil
}

// PlaceMarker adds a marker with an open popup.
func (e *Engine) PlaceMarker(id string, at orb.Point, popup string, style layer.Style) error {
	mk := e.l.Call("marker", latLng(at.Lat(), at.Lon()), map[string]interface{}{
		"icon": e.icon(style.IconColor()),
	})
	mk.Call("bindPopup", textNode(popup))
	mk.Call("addTo", e.m)
	mk.Call("openPopup")
	e.markers[id] = mk
	return nil
}

// RemoveMarker removes a marker placed with PlaceMarker.
func (e *Engine) RemoveMarker(id string) error {
	mk, ok := e.markers[id]
	if !ok {
		return fmt.Errorf("unknown marker %q", id)
	}
	mk.Call("remove")
	delete(e.markers, id)
	return nil
}

// Zoom returns the current zoom level.
func (e *Engine) Zoom() int {
	return e.m.Call("getZoom").Int()
}

// OnClick registers fn for map clicks.
func (e *Engine) OnClick(fn func(orb.Point)) {
	e.on("click", func(ev js.Value) { fn(eventPoint(ev)) })
}

// OnHover registers fn for pointer moves.
func (e *Engine) OnHover(fn func(orb.Point)) {
	e.on("mousemove", func(ev js.Value) { fn(eventPoint(ev)) })
}

// OnBasemapChange registers fn for basemap switches in the selector.
func (e *Engine) OnBasemapChange(fn func(string)) {
	e.on("baselayerchange", func(ev js.Value) { fn(ev.Get("name").String()) })
}

// OnOverlayToggle registers fn for overlays toggled in the selector.
func (e *Engine) OnOverlayToggle(fn func(string, bool)) {
	e.on("overlayadd", func(ev js.Value) { fn(ev.Get("name").String(), true) })
	e.on("overlayremove", func(ev js.Value) { fn(ev.Get("name").String(), false) })
}

// Release frees the Go callbacks handed to Leaflet.
func (e *Engine) Release() {
	for _, f := range e.funcs {
		f.Release()
	}
	e.funcs = nil
}

func (e *Engine) on(event string, fn func(js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		fn(args[0])
		return nil
	})
	e.funcs = append(e.funcs, f)
	e.m.Call("on", event, f)
}

func (e *Engine) tileLayer(b config.Basemap) js.Value {
	if tl, ok := e.basemaps[b.Name]; ok {
		return tl
	}

	opts := map[string]interface{}{"attribution": b.Attribution}
	if b.MaxZoom > 0 {
		opts["maxZoom"] = b.MaxZoom
	}
	tl := e.l.Call("tileLayer", b.URL, opts)
	e.basemaps[b.Name] = tl
	return tl
}

func (e *Engine) geoJSON(l *layer.Layer) (js.Value, error) {
	data, err := l.FeatureCollection().MarshalJSON()
	if err != nil {
		return js.Value{}, err
	}
	doc := js.Global().Get("JSON").Call("parse", string(data))

	style := styleObject(l.Style)
	icon := e.icon(l.Style.IconColor())

	onEach := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		feature, lyr := args[0], args[1]
		lyr.Call("bindPopup", textNode(feature.Get("properties").Get(layer.PopupProperty).String()))
		return nil
	})
	pointToLayer := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		return e.l.Call("marker", args[1], map[string]interface{}{"icon": icon})
	})
	e.funcs = append(e.funcs, onEach, pointToLayer)

	return e.l.Call("geoJSON", doc, map[string]interface{}{
		"style":         style,
		"onEachFeature": onEach,
		"pointToLayer":  pointToLayer,
	}), nil
}

func (e *Engine) icon(color string) js.Value {
	half := IconSize / 2
	return e.l.Call("icon", map[string]interface{}{
		"iconUrl":     e.iconBase + "/" + color + ".webp",
		"iconSize":    []interface{}{IconSize, IconSize},
		"iconAnchor":  []interface{}{half, half},
		"popupAnchor": []interface{}{0, -half},
	})
}

func styleObject(s layer.Style) map[string]interface{} {
	o := map[string]interface{}{}
	if s.Color != "" {
		o["color"] = s.Color
	}
	if s.FillColor != "" {
		o["fillColor"] = s.FillColor
	}
	if s.DashArray != "" {
		o["dashArray"] = s.DashArray
	}
	if s.Weight > 0 {
		o["weight"] = s.Weight
	}
	if s.Opacity > 0 {
		o["opacity"] = s.Opacity
	}
	if s.FillOpacity > 0 {
		o["fillOpacity"] = s.FillOpacity
	}
	return o
}

func latLng(lat, lng float64) []interface{} {
	return []interface{}{lat, lng}
}

func eventPoint(ev js.Value) orb.Point {
	ll := ev.Get("latlng")
	return orb.Point{ll.Get("lng").Float(), ll.Get("lat").Float()}
}

// textNode wraps s in an element so popups never interpret it as HTML.
func textNode(s string) js.Value {
	el := js.Global().Get("document").Call("createElement", "span")
	el.Set("textContent", s)
	return el
}
