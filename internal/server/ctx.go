package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/geoview/internal/config"

	"github.com/rs/zerolog/log"
)

// Options are the server settings not part of the viewer configuration.
type Options struct {
	Title      string
	DataDir    string
	DistDir    string
	LeafletCSS string
	LeafletJS  string
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config     *config.Config
	icons      sync.Map
	DataDir    string
	DistDir    string
	IndexHTML  []byte
	ConfigJSON []byte
	indexETag  string
}

// NewServerContext renders the page, publishes the configuration and checks
// that local layer sources exist in the data directory.
func NewServerContext(cfg *config.Config, opts Options) (*ServerContext, error) {
	log.Info().
		Int("basemaps", len(cfg.Basemaps)).
		Int("layers", len(cfg.Layers)).
		Msg("Initializing server context")

	if opts.LeafletCSS == "" {
		opts.LeafletCSS = DefaultLeafletCSS
	}
	if opts.LeafletJS == "" {
		opts.LeafletJS = DefaultLeafletJS
	}

	for _, l := range cfg.Layers {
		path, ok := localSource(opts.DataDir, l.Source)
		if !ok {
			log.Trace().
				Str("layer", l.Name).
				Str("source", l.Source).
				Msg("Remote layer source")
			continue
		}
		if _, err := os.Stat(path); err != nil {
			// the viewer stops at this layer and never shows the selector
			log.Warn().
				Str("layer", l.Name).
				Str("path", path).
				Msg("Layer source not found in data directory")
			continue
		}
		log.Debug().
			Str("layer", l.Name).
			Str("path", path).
			Msg("Layer source found")
	}

	index, err := BuildIndex(cfg, opts.Title, opts.LeafletCSS, opts.LeafletJS)
	if err != nil {
		return nil, err
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("index_bytes", len(index)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:     cfg,
		DataDir:    opts.DataDir,
		DistDir:    opts.DistDir,
		IndexHTML:  index,
		indexETag:  contentETag(index),
		ConfigJSON: cfgJSON,
	}, nil
}

// localSource maps a relative "data/..." source to its path in dataDir.
func localSource(dataDir, source string) (string, bool) {
	if strings.Contains(source, "://") || strings.HasPrefix(source, "/") {
		return "", false
	}
	rest, ok := strings.CutPrefix(filepath.ToSlash(source), "data/")
	if !ok {
		return "", false
	}
	return filepath.Join(dataDir, filepath.FromSlash(rest)), true
}
