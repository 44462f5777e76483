package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/logger"
	"github.com/woozymasta/geoview/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"      env:"CONFIG_FILE"    description:"Path to configuration file"        default:"config.yaml"`
	Addr       string `short:"a" long:"addr"        env:"LISTEN_ADDRESS" description:"Address to listen on"              default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"        env:"LISTEN_PORT"    description:"Port to listen on"                 default:"8080"`
	Title      string `short:"t" long:"title"       env:"PAGE_TITLE"     description:"Page title"                        default:"Map"`
	DataDir    string `short:"d" long:"data-dir"    env:"DATA_DIR"       description:"Directory served under /data/"     default:"data"`
	DistDir    string `short:"w" long:"dist-dir"    env:"DIST_DIR"       description:"Directory with viewer.wasm bundle" default:"dist"`
	LeafletCSS string `long:"leaflet-css"           env:"LEAFLET_CSS"    description:"Leaflet stylesheet URL"`
	LeafletJS  string `long:"leaflet-js"            env:"LEAFLET_JS"     description:"Leaflet script URL"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	srvCtx, err := server.NewServerContext(cfg, server.Options{
		Title:      opts.Title,
		DataDir:    opts.DataDir,
		DistDir:    opts.DistDir,
		LeafletCSS: opts.LeafletCSS,
		LeafletJS:  opts.LeafletJS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("layers", len(cfg.Layers)).
		Str("basemap", cfg.DefaultBasemap().Name).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Routes()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
