package layer

import (
	"encoding/xml"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmgeojson"
)

// decodeOSM converts an OSM XML document into a feature collection.
// Element tags are promoted to top-level properties so labels can address them directly.
func decodeOSM(document []byte) (*geojson.FeatureCollection, error) {
	o := &osm.OSM{}
	if err := xml.Unmarshal(document, o); err != nil {
		return nil, fmt.Errorf("decode osm xml: %w", err)
	}

	fc, err := osmgeojson.Convert(o, osmgeojson.NoMeta(true), osmgeojson.NoRelationMembership(true))
	if err != nil {
		return nil, fmt.Errorf("convert osm: %w", err)
	}

	for _, f := range fc.Features {
		promoteTags(f.Properties)
	}

	return fc, nil
}

func promoteTags(props geojson.Properties) {
	switch tags := props["tags"].(type) {
	case map[string]string:
		for k, v := range tags {
			if _, ok := props[k]; !ok {
				props[k] = v
			}
		}
	case map[string]interface{}:
		for k, v := range tags {
			if _, ok := props[k]; !ok {
				props[k] = v
			}
		}
	}
}
