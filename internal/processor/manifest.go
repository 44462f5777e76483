package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/geoview/internal/control"

	"gopkg.in/yaml.v3"
)

// Manifest formats understood by WriteManifest.
const (
	ManifestJSON = "json"
	ManifestYAML = "yaml"
)

// Manifest describes the layer selector produced by a loader run.
type Manifest struct {
	Basemaps []ManifestBasemap `yaml:"basemaps" json:"basemaps"`
	Overlays []ManifestOverlay `yaml:"overlays" json:"overlays"`
}

// ManifestBasemap is one radio row of the selector.
type ManifestBasemap struct {
	Name     string `yaml:"name"     json:"name"`
	URL      string `yaml:"url"      json:"url"`
	Selected bool   `yaml:"selected" json:"selected"`
}

// ManifestOverlay is one checkbox row of the selector and its written file.
type ManifestOverlay struct {
	Name     string     `yaml:"name"           json:"name"`
	File     string     `yaml:"file,omitempty" json:"file,omitempty"`
	Features int        `yaml:"features"       json:"features"`
	Bound    [4]float64 `yaml:"bound,flow"     json:"bound"` // west, south, east, north
	Visible  bool       `yaml:"visible"        json:"visible"`
}

// NewManifest lists the control rows; files maps overlay names to written paths.
func NewManifest(c *control.Control, files map[string]string) *Manifest {
	m := &Manifest{
		Basemaps: make([]ManifestBasemap, 0, len(c.Basemaps)),
		Overlays: make([]ManifestOverlay, 0, len(c.Overlays)),
	}

	for _, b := range c.Basemaps {
		m.Basemaps = append(m.Basemaps, ManifestBasemap{
			Name:     b.Basemap.Name,
			URL:      b.Basemap.URL,
			Selected: b.Selected,
		})
	}

	for _, o := range c.Overlays {
		entry := ManifestOverlay{
			Name:     o.Name,
			File:     files[o.Name],
			Features: len(o.Layer.Features),
			Visible:  o.Visible,
		}
		if !o.Layer.Empty() {
			b := o.Layer.Bound
			entry.Bound = [4]float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
		}
		m.Overlays = append(m.Overlays, entry)
	}

	return m
}

// WriteManifest stores the manifest as manifest.{json,yaml} in dir.
func WriteManifest(dir, format string, m *Manifest) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case ManifestJSON:
		data, err = json.MarshalIndent(m, "", "  ")
	case ManifestYAML:
		data, err = yaml.Marshal(m)
	default:
		return "", fmt.Errorf("unsupported manifest format %q", format)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "manifest."+format)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
