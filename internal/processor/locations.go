package processor

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/woozymasta/geoview/internal/layer"

	"github.com/rs/zerolog/log"
)

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// LayerFileName returns a file system safe GeoJSON file name for a layer name.
func LayerFileName(name string) string {
	s := unsafeFileChars.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-.")
	if s == "" {
		s = "layer"
	}
	return s + ".geojson"
}

// SaveLayer writes the layer with its popups as a GeoJSON file into dir
// and returns the written path. Existing files are kept unless force is set.
func SaveLayer(dir, name string, l *layer.Layer, force bool) (string, error) {
	path := filepath.Join(dir, LayerFileName(name))

	// Check if file exists
	if _, err := os.Stat(path); err == nil && !force {
		log.Debug().Str("layer", name).Str("path", path).Msg("Layer file exists, skipping")
		return path, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := l.FeatureCollection().MarshalJSON()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	return path, nil
}
