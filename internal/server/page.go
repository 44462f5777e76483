package server

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/woozymasta/geoview/assets"
	"github.com/woozymasta/geoview/internal/config"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// PageData fills the index template.
type PageData struct {
	Title        string
	LeafletCSS   string
	LeafletJS    string
	CSS          string
	JS           string
	ClickReadout string
	HoverReadout string
	Onboarding   string
}

// Default Leaflet distribution.
const (
	DefaultLeafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	DefaultLeafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

// BuildIndex renders the viewer page with inlined, minified CSS and JS.
func BuildIndex(cfg *config.Config, title, leafletCSS, leafletJS string) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	cssMin, err := m.String("text/css", assets.Style)
	if err != nil {
		return nil, fmt.Errorf("minify css: %w", err)
	}
	jsMin, err := m.String("text/javascript", assets.Script)
	if err != nil {
		return nil, fmt.Errorf("minify js: %w", err)
	}

	tmpl, err := template.New("index").Parse(assets.IndexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PageData{
		Title:        title,
		LeafletCSS:   leafletCSS,
		LeafletJS:    leafletJS,
		CSS:          cssMin,
		JS:           jsMin,
		ClickReadout: cfg.Readout.Click,
		HoverReadout: cfg.Readout.Hover,
		Onboarding:   cfg.Onboarding.Element,
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify html: %w", err)
	}

	return out, nil
}
