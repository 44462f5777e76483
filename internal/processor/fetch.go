package processor

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// retrieve loads one source. Relative locations resolve against the base URL
// when set, otherwise against the base directory on disk.
func (s *Sequencer) retrieve(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, &RetrievalError{Source: source, Err: err}
	}

	switch {
	case u.Scheme == "file":
		return readFile(source, u.Path)
	case u.Scheme == "" && s.baseURL == nil:
		path := source
		if s.baseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(s.baseDir, path)
		}
		return readFile(source, path)
	case u.Scheme == "":
		u = s.baseURL.ResolveReference(u)
	}

	return s.get(ctx, source, u.String())
}

func (s *Sequencer) get(ctx context.Context, source, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &RetrievalError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/geo+json, application/json, application/xml;q=0.9, */*;q=0.8")

	log.Debug().Str("url", target).Msg("Requesting layer source")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &RetrievalError{Source: source, Err: err}
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RetrievalError{Source: source, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{Source: source, Err: err}
	}

	return body, nil
}

func readFile(source, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RetrievalError{Source: source, Err: err}
	}
	return data, nil
}
