package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/woozymasta/geoview/internal/layer"
)

const sample = `
attribution: "© contributors"
viewport:
  center: [50.45, 30.52]
  zoom: 11
basemaps:
  - name: Streets
    url: https://tile.example.org/{z}/{x}/{y}.png
  - name: Satellite
    url: https://sat.example.org/{z}/{x}/{y}.jpg
    default: true
layers:
  - name: Districts
    source: data/districts.geojson
    style:
      color: "#ff7800"
      weight: 2
  - name: Buildings
    label: addr
    source: data/buildings.osm
    filter: 'properties.building != nil'
markers:
  items:
    - at: [50.45, 30.52]
      popup: Center
onboarding:
  delay: 3s
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Onboarding.Delay != 3*time.Second {
		t.Errorf("delay = %v", cfg.Onboarding.Delay)
	}
	if cfg.Markers.Name != DefaultMarkersName {
		t.Errorf("markers name = %q", cfg.Markers.Name)
	}
	if cfg.Basemaps[0].Attribution != "© contributors" {
		t.Errorf("attribution not inherited: %q", cfg.Basemaps[0].Attribution)
	}
	if got := cfg.DefaultBasemap().Name; got != "Satellite" {
		t.Errorf("default basemap = %q", got)
	}

	want := []Layer{
		{
			Name:   "Districts",
			Label:  DefaultLabelAttribute,
			Source: "data/districts.geojson",
			Format: layer.FormatGeoJSON,
			Style:  layer.Style{Color: "#ff7800", Weight: 2},
		},
		{
			Name:   "Buildings",
			Label:  "addr",
			Source: "data/buildings.osm",
			Format: layer.FormatOSM,
			Filter: "properties.building != nil",
		},
	}
	if diff := cmp.Diff(want, cfg.Layers); diff != "" {
		t.Errorf("layers (-want +got):\n%s", diff)
	}
	if cfg.Scale.MaxWidth != DefaultScaleWidth || !cfg.Scale.Metric {
		t.Errorf("scale = %+v", cfg.Scale)
	}
}

func TestDecodeRoundTripsPublishedJSON(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"no basemaps":     "layers: []",
		"basemap no url":  "basemaps: [{name: a}]",
		"layer no source": "basemaps: [{name: a, url: b}]\nlayers: [{name: x}]",
		"malformed yaml":  "basemaps: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
