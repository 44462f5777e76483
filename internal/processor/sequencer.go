// Package processor fetches layer sources and turns them into map layers.
package processor

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/layer"

	"github.com/rs/zerolog/log"
)

// Sequencer retrieves layer sources strictly one after another, so the order
// of the resulting layers never depends on network latency.
type Sequencer struct {
	client  *http.Client
	baseURL *url.URL
	baseDir string
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithBaseURL resolves relative sources against base.
func WithBaseURL(base *url.URL) SequencerOption {
	return func(s *Sequencer) { s.baseURL = base }
}

// WithBaseDir reads relative sources from dir when no base URL is set.
func WithBaseDir(dir string) SequencerOption {
	return func(s *Sequencer) { s.baseDir = dir }
}

// NewSequencer returns a sequencer issuing every request through client.
func NewSequencer(client *http.Client, opts ...SequencerOption) *Sequencer {
	if client == nil {
		client = http.DefaultClient
	}

	s := &Sequencer{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run fetches and parses every descriptor in order, then calls onComplete once
// with the pre-parsed entries followed by the fetched ones.
//
// A failing step stops the sequence: later sources are never requested and
// onComplete is not called. Name clashes are reported before anything is fetched.
func (s *Sequencer) Run(ctx context.Context, descriptors []config.Layer, preparsed []layer.Named, onComplete func(*layer.GroupMapping)) error {
	acc, err := prepare(descriptors, preparsed)
	if err != nil {
		return err
	}

	log.Info().
		Int("sources", len(acc)).
		Int("preparsed", len(preparsed)).
		Msg("Loading layers")

	started := time.Now()
	for i := range acc {
		acc, err = s.step(ctx, acc, i)
		if err != nil {
			log.Error().
				Err(err).
				Str("layer", acc[i].Name()).
				Int("step", i).
				Msg("Layer loading stopped")
			return err
		}
	}

	mapping, err := merge(preparsed, acc)
	if err != nil {
		return err
	}

	log.Info().
		Int("layers", mapping.Len()).
		Dur("duration", time.Since(started)).
		Msg("Layers loaded")

	onComplete(mapping)
	return nil
}

// step realizes acc[i] and returns the accumulator with that slot replaced.
func (s *Sequencer) step(ctx context.Context, acc []Entry, i int) ([]Entry, error) {
	d := acc[i].Descriptor()
	started := time.Now()

	body, err := s.retrieve(ctx, d.Source)
	if err != nil {
		return acc, err
	}

	l, err := layer.Parse(body, d.Label, d.Style,
		layer.WithFormat(d.Format),
		layer.WithFilter(acc[i].filter),
		layer.WithSource(d.Source))
	if err != nil {
		return acc, err
	}

	log.Debug().
		Str("layer", d.Name).
		Str("source", d.Source).
		Int("features", len(l.Features)).
		Dur("duration", time.Since(started)).
		Msg("Layer realized")

	next := make([]Entry, len(acc))
	copy(next, acc)
	next[i] = Realized(d.Name, l)
	return next, nil
}

// prepare validates names and filters and builds the pending accumulator.
func prepare(descriptors []config.Layer, preparsed []layer.Named) ([]Entry, error) {
	seen := make(map[string]struct{}, len(descriptors)+len(preparsed))
	for _, p := range preparsed {
		if _, ok := seen[p.Name]; ok {
			return nil, &layer.ConfigurationError{Name: p.Name, Reason: "duplicate layer name"}
		}
		seen[p.Name] = struct{}{}
	}

	acc := make([]Entry, len(descriptors))
	for i, d := range descriptors {
		if _, ok := seen[d.Name]; ok {
			return nil, &layer.ConfigurationError{Name: d.Name, Reason: "duplicate layer name"}
		}
		seen[d.Name] = struct{}{}

		f, err := layer.CompileFilter(d.Filter)
		if err != nil {
			return nil, err
		}

		acc[i] = Pending(d).withFilter(f)
	}

	return acc, nil
}

func merge(preparsed []layer.Named, acc []Entry) (*layer.GroupMapping, error) {
	mapping := layer.NewGroupMapping()
	for _, p := range preparsed {
		if err := mapping.Add(p.Name, p.Layer); err != nil {
			return nil, err
		}
	}
	for _, e := range acc {
		if err := mapping.Add(e.Name(), e.Layer()); err != nil {
			return nil, err
		}
	}
	return mapping, nil
}
