package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/geoview/internal/layer"
)

func TestLayerFileName(t *testing.T) {
	cases := map[string]string{
		"City Districts": "city-districts.geojson",
		"  ./../etc  ":   "etc.geojson",
		"Ріки":           "layer.geojson",
	}
	for in, want := range cases {
		if got := LayerFileName(in); got != want {
			t.Errorf("LayerFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveLayer(t *testing.T) {
	dir := t.TempDir()
	l := layer.FromMarkers([]layer.Marker{{At: [2]float64{50, 30}, Popup: "Here"}}, layer.Style{})

	path, err := SaveLayer(dir, "Spots", l, false)
	if err != nil {
		t.Fatalf("SaveLayer: %v", err)
	}
	if path != filepath.Join(dir, "spots.geojson") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"popup":"Here"`) {
		t.Errorf("saved layer lacks popup: %s", data)
	}

	// existing files survive without force
	if err := os.WriteFile(path, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := SaveLayer(dir, "Spots", l, false); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "keep" {
		t.Error("file overwritten without force")
	}
}
