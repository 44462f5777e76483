package processor

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/control"
	"github.com/woozymasta/geoview/internal/layer"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func testControl(t *testing.T) *control.Control {
	t.Helper()

	markers := layer.FromMarkers([]layer.Marker{
		{Popup: "Camp", At: [2]float64{51.5, -0.1}},
		{Popup: "Well", At: [2]float64{52.5, 1.2}},
	}, layer.Style{})

	m := layer.NewGroupMapping()
	if err := m.Add("Markers", markers); err != nil {
		t.Fatal(err)
	}
	if err := m.Add("Empty", &layer.Layer{}); err != nil {
		t.Fatal(err)
	}

	c, err := control.Assemble(m, []config.Basemap{
		{Name: "Streets", URL: "https://a/{z}/{x}/{y}.png"},
		{Name: "Terrain", URL: "https://b/{z}/{x}/{y}.png", Default: true},
	}, control.Options{Visible: map[string]bool{"Markers": true}})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewManifest(t *testing.T) {
	got := NewManifest(testControl(t), map[string]string{"Markers": "out/markers.geojson"})

	want := &Manifest{
		Basemaps: []ManifestBasemap{
			{Name: "Streets", URL: "https://a/{z}/{x}/{y}.png"},
			{Name: "Terrain", URL: "https://b/{z}/{x}/{y}.png", Selected: true},
		},
		Overlays: []ManifestOverlay{
			{Name: "Markers", File: "out/markers.geojson", Features: 2, Bound: [4]float64{-0.1, 51.5, 1.2, 52.5}, Visible: true},
			{Name: "Empty"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteManifest(t *testing.T) {
	m := NewManifest(testControl(t), nil)
	dir := t.TempDir()

	jsonPath, err := WriteManifest(dir, ManifestJSON, m)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON Manifest
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, &fromJSON); diff != "" {
		t.Errorf("json manifest mismatch (-want +got):\n%s", diff)
	}

	yamlPath, err := WriteManifest(dir, ManifestYAML, m)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	data, err = os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML Manifest
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, &fromYAML); diff != "" {
		t.Errorf("yaml manifest mismatch (-want +got):\n%s", diff)
	}

	if _, err := WriteManifest(dir, "toml", m); err == nil {
		t.Error("expected error for unknown format")
	}
}
