//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"syscall/js"

	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/leaflet"
	"github.com/woozymasta/geoview/internal/logger"
	"github.com/woozymasta/geoview/internal/processor"
	"github.com/woozymasta/geoview/internal/shell"

	"github.com/rs/zerolog/log"
)

// Page level settings read from the global "geoview" object set by the bootstrap script.
type pageOptions struct {
	ConfigURL string
	IconBase  string
	Container string
	LogLevel  string
}

func readPageOptions() pageOptions {
	opts := pageOptions{
		ConfigURL: "api/config",
		IconBase:  "icons",
		Container: "map",
		LogLevel:  "info",
	}

	g := js.Global().Get("geoview")
	if !g.Truthy() {
		return opts
	}
	read := func(key string, dst *string) {
		if v := g.Get(key); v.Type() == js.TypeString && v.String() != "" {
			*dst = v.String()
		}
	}
	read("config", &opts.ConfigURL)
	read("icons", &opts.IconBase)
	read("container", &opts.Container)
	read("logLevel", &opts.LogLevel)

	return opts
}

func main() {
	opts := readPageOptions()

	// stdout goes to the browser console
	logger.Logger{Level: opts.LogLevel, NoColor: true}.SetupWriter(os.Stdout)

	page, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page location")
	}

	ctx := context.Background()
	client := &http.Client{}

	cfg, err := fetchConfig(ctx, client, page, opts.ConfigURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	dom := leaflet.NewDOM()
	engine := leaflet.New(opts.Container, opts.IconBase)

	s := shell.New(cfg, shell.Deps{
		Engine:     engine,
		Readout:    dom,
		Onboarding: dom,
		Sequencer:  processor.NewSequencer(client, processor.WithBaseURL(page)),
	})

	if err := s.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize map")
	}

	// A failed source leaves the basemap usable without overlays.
	if err := s.LoadLayers(ctx); err != nil {
		log.Error().Err(err).Msg("Overlays unavailable")
	}

	select {}
}

func fetchConfig(ctx context.Context, client *http.Client, page *url.URL, ref string) (*config.Config, error) {
	u, err := page.Parse(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return config.Decode(data)
}
