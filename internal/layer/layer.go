// Package layer turns geographic documents into renderable map layers.
package layer

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Placeholder is the popup text of features without a label.
const Placeholder = "Unnamed"

// PopupProperty is the property holding the popup text in exported collections.
const PopupProperty = "popup"

// Feature is one geometry of a layer with its bound popup.
type Feature struct {
	Geometry   orb.Geometry
	Properties geojson.Properties
	Popup      string
}

// Layer is a renderable collection of features sharing one style.
type Layer struct {
	Features []Feature
	Style    Style
	Bound    orb.Bound
}

// Empty reports whether the layer holds no features.
func (l *Layer) Empty() bool {
	return len(l.Features) == 0
}

// FeatureCollection exports the layer as GeoJSON with popups stored in PopupProperty.
func (l *Layer) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range l.Features {
		gf := geojson.NewFeature(f.Geometry)
		gf.Properties = f.Properties.Clone()
		if gf.Properties == nil {
			gf.Properties = geojson.Properties{}
		}
		gf.Properties[PopupProperty] = f.Popup
		fc.Append(gf)
	}
	return fc
}

func (l *Layer) add(f Feature) {
	b := f.Geometry.Bound()
	if len(l.Features) == 0 {
		l.Bound = b
	} else {
		l.Bound = l.Bound.Union(b)
	}
	l.Features = append(l.Features, f)
}
