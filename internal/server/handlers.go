// Package server handles HTTP requests and middleware.
package server

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/geoview/internal/icon"
	"github.com/woozymasta/geoview/internal/layer"

	"github.com/rs/zerolog/log"
)

const (
	etagCap = 64

	// IconPixels is the rendered icon edge; twice the CSS size for high density screens.
	IconPixels = 48
)

// HandleConfig serves the viewer configuration as JSON.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	// Ignoring error as we cannot handle client disconnects
	_, _ = w.Write(s.ConfigJSON)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/favicon.ico" {
		http.NotFound(w, r)
		return
	}

	data, err := s.icon(layer.DefaultColor)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := s.indexETag

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleIcon serves /icons/{color}.webp marker icons.
func (s *ServerContext) HandleIcon(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/icons/")
	color, ok := strings.CutSuffix(name, ".webp")
	if !ok || strings.Contains(color, "/") {
		http.NotFound(w, r)
		return
	}

	data, err := s.icon(color)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// HandleData serves layer source files from the data directory.
func (s *ServerContext) HandleData(w http.ResponseWriter, r *http.Request) {
	rel, ok := cleanRelative(strings.TrimPrefix(r.URL.Path, "/data/"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !s.serveFile(w, r, filepath.Join(s.DataDir, rel), dataContentType(rel)) {
		http.NotFound(w, r)
	}
}

// HandleDist serves the WebAssembly viewer and its loader.
func (s *ServerContext) HandleDist(w http.ResponseWriter, r *http.Request) {
	var contentType string
	switch r.URL.Path {
	case "/viewer.wasm":
		contentType = "application/wasm"
	case "/wasm_exec.js":
		contentType = "text/javascript; charset=utf-8"
	default:
		http.NotFound(w, r)
		return
	}

	if !s.serveFile(w, r, filepath.Join(s.DistDir, path.Base(r.URL.Path)), contentType) {
		log.Warn().Str("path", r.URL.Path).Str("dist", s.DistDir).Msg("Viewer bundle missing")
		http.NotFound(w, r)
	}
}

func (s *ServerContext) icon(color string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(color, "#"))
	if v, ok := s.icons.Load(key); ok {
		return v.([]byte), nil
	}

	data, err := icon.Render(key, IconPixels)
	if err != nil {
		return nil, err
	}

	s.icons.Store(key, data)
	return data, nil
}

// contentETag returns a strong ETag derived from the bytes of an in-memory page.
func contentETag(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf(`"%x-%x"`, len(data), h.Sum64())
}

func cleanRelative(p string) (string, bool) {
	if p == "" || strings.Contains(p, "\\") {
		return "", false
	}
	clean := path.Clean("/" + p)[1:]
	if clean == "" || clean != p {
		return "", false
	}
	return filepath.FromSlash(clean), true
}

func dataContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".geojson":
		return "application/geo+json"
	case ".json":
		return "application/json"
	case ".osm":
		return "application/xml"
	default:
		return ""
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
