package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/control"
	"github.com/woozymasta/geoview/internal/layer"
	"github.com/woozymasta/geoview/internal/logger"
	"github.com/woozymasta/geoview/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"   env:"CONFIG_FILE"     description:"Path to configuration file"               default:"config.yaml"`
	OutDir     string        `short:"o" long:"out"      env:"OUT_DIR"         description:"Directory for layers and manifest"        default:"out"`
	Format     string        `short:"m" long:"manifest" env:"MANIFEST_FORMAT" description:"Manifest format" choice:"json" choice:"yaml" default:"yaml"`
	Limit      []string      `short:"l" long:"limit"    env:"LIMIT_NAMES"     description:"Limit processing to specific layer names"`
	BaseDir    string        `short:"d" long:"base-dir" env:"BASE_DIR"        description:"Directory for relative sources"          default:"."`
	BaseURL    string        `short:"u" long:"base-url" env:"BASE_URL"        description:"URL for relative sources, overrides base-dir"`
	Timeout    time.Duration `long:"timeout"            env:"HTTP_TIMEOUT"    description:"HTTP client timeout"                      default:"15s"`
	Force      bool          `short:"f" long:"force"    description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto: make(map[string]func(string, *tls.Conn) http.RoundTripper),
		},
		Timeout: opts.Timeout,
	}

	seqOpts := []processor.SequencerOption{processor.WithBaseDir(opts.BaseDir)}
	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			log.Fatal().Err(err).Str("base_url", opts.BaseURL).Msg("Invalid base URL")
		}
		seqOpts = append(seqOpts, processor.WithBaseURL(base))
	}

	// Filter layers if limit is set
	layersToProcess := cfg.Layers
	if len(opts.Limit) > 0 {
		layersToProcess = make([]config.Layer, 0)
		availableLayers := make(map[string]config.Layer)
		for _, l := range cfg.Layers {
			availableLayers[l.Name] = l
		}

		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if l, ok := availableLayers[limitName]; ok {
				layersToProcess = append(layersToProcess, l)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Layer specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(layersToProcess)).
		Str("out", opts.OutDir).
		Msg("Starting loader")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	preparsed := []layer.Named{{
		Name:  cfg.Markers.Name,
		Layer: layer.FromMarkers(cfg.Markers.Markers, cfg.Markers.Style),
	}}

	visible := map[string]bool{cfg.Markers.Name: true}
	for _, l := range layersToProcess {
		if l.Visible {
			visible[l.Name] = true
		}
	}

	var mapping *layer.GroupMapping
	seq := processor.NewSequencer(client, seqOpts...)
	if err := seq.Run(ctx, layersToProcess, preparsed, func(m *layer.GroupMapping) {
		mapping = m
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to load layers")
	}

	ctrl, err := control.Assemble(mapping, cfg.Basemaps, control.Options{
		Position:  cfg.Control.Position,
		Collapsed: cfg.Control.Collapsed,
		Visible:   visible,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to assemble layer control")
	}

	files := make(map[string]string, len(ctrl.Overlays))
	for _, o := range ctrl.Overlays {
		path, err := processor.SaveLayer(opts.OutDir, o.Name, o.Layer, opts.Force)
		if err != nil {
			log.Fatal().Err(err).Str("layer", o.Name).Msg("Failed to save layer")
		}
		files[o.Name] = path

		log.Info().
			Str("layer", o.Name).
			Int("features", len(o.Layer.Features)).
			Str("path", path).
			Msg("Layer saved")
	}

	manifestPath, err := processor.WriteManifest(opts.OutDir, opts.Format, processor.NewManifest(ctrl, files))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write manifest")
	}

	log.Info().Str("manifest", manifestPath).Msg("Loader finished successfully")
}
