// Package shell owns the map instance and wires user events to it.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/control"
	"github.com/woozymasta/geoview/internal/geo"
	"github.com/woozymasta/geoview/internal/layer"
	"github.com/woozymasta/geoview/internal/processor"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// State is the shell lifecycle stage.
type State int

// Lifecycle stages. There is no teardown stage; closing the tab disposes everything.
const (
	Uninitialized State = iota
	Initialized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNotInitialized is returned by operations that need a map.
var ErrNotInitialized = errors.New("map shell is not initialized")

// ErrAlreadyLoaded is returned when layers are loaded a second time.
// The pipeline runs once per page, whether or not it succeeded.
var ErrAlreadyLoaded = errors.New("map layers are already loaded")

// Deps are the collaborators injected into a Shell.
type Deps struct {
	Engine     Engine
	Readout    Readout
	Onboarding Onboarding
	Sequencer  *processor.Sequencer
	// NewID names transient markers; uuid.NewString when nil.
	NewID func() string
}

// Shell owns the single map instance of a page.
type Shell struct {
	cfg  *config.Config
	deps Deps

	control   *control.Control
	markers   *layer.Layer
	onboard   *time.Timer
	transient string
	state     State
	loading   bool
	mu        sync.Mutex
}

// New returns an uninitialized shell.
func New(cfg *config.Config, deps Deps) *Shell {
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Sequencer == nil {
		deps.Sequencer = processor.NewSequencer(nil)
	}
	return &Shell{cfg: cfg, deps: deps}
}

// State returns the lifecycle stage.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run initializes the map and loads the configured layers.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.Init(); err != nil {
		return err
	}
	return s.LoadLayers(ctx)
}

// Init creates the map, the scale bar and the configured marker layer,
// registers pointer handlers and arms the onboarding timer.
func (s *Shell) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Uninitialized {
		return fmt.Errorf("map shell is already %s", s.state)
	}

	e := s.deps.Engine
	if err := e.Init(s.cfg.Viewport, s.cfg.DefaultBasemap()); err != nil {
		return fmt.Errorf("init map: %w", err)
	}
	if err := e.AddScale(s.cfg.Scale); err != nil {
		return fmt.Errorf("add scale: %w", err)
	}

	s.markers = layer.FromMarkers(s.cfg.Markers.Markers, s.cfg.Markers.Style)
	if err := e.AddLayer(s.cfg.Markers.Name, s.markers, true); err != nil {
		return fmt.Errorf("add markers: %w", err)
	}

	e.OnClick(s.HandleClick)
	e.OnHover(s.HandleHover)
	e.OnBasemapChange(s.HandleBasemapChange)
	e.OnOverlayToggle(s.HandleOverlayToggle)

	if s.deps.Onboarding != nil {
		element := s.cfg.Onboarding.Element
		s.onboard = time.AfterFunc(s.cfg.Onboarding.Delay, func() {
			s.deps.Onboarding.Hide(element)
		})
	}

	s.state = Initialized

	log.Info().
		Float64("lat", s.cfg.Viewport.Center[0]).
		Float64("lng", s.cfg.Viewport.Center[1]).
		Int("zoom", s.cfg.Viewport.Zoom).
		Int("markers", len(s.markers.Features)).
		Msg("Map initialized")

	return nil
}

// LoadLayers fetches the configured sources in order and, once all of them
// are parsed, attaches the layer selector. A failing source leaves the map
// without a selector.
func (s *Shell) LoadLayers(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	if s.loading {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.loading = true
	preparsed := []layer.Named{{Name: s.cfg.Markers.Name, Layer: s.markers}}
	s.mu.Unlock()

	visible := map[string]bool{s.cfg.Markers.Name: true}
	for _, l := range s.cfg.Layers {
		if l.Visible {
			visible[l.Name] = true
		}
	}

	var attachErr error
	err := s.deps.Sequencer.Run(ctx, s.cfg.Layers, preparsed, func(m *layer.GroupMapping) {
		attachErr = s.attach(m, visible)
	})
	if err != nil {
		return err
	}
	return attachErr
}

func (s *Shell) attach(m *layer.GroupMapping, visible map[string]bool) error {
	c, err := control.Assemble(m, s.cfg.Basemaps, control.Options{
		Position:  s.cfg.Control.Position,
		Collapsed: s.cfg.Control.Collapsed,
		Visible:   visible,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to assemble layer control")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.Engine.AddControl(c); err != nil {
		log.Error().Err(err).Msg("Failed to attach layer control")
		return err
	}
	s.control = c

	log.Info().
		Int("basemaps", len(c.Basemaps)).
		Int("overlays", len(c.Overlays)).
		Msg("Layer control attached")

	return nil
}

// Control returns the attached layer selector, nil until layers are loaded.
func (s *Shell) Control() *control.Control {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.control
}

// HandleClick replaces the transient marker with one at p and shows p in the click readout.
func (s *Shell) HandleClick(p orb.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Initialized {
		return
	}

	e := s.deps.Engine
	if s.transient != "" {
		if err := e.RemoveMarker(s.transient); err != nil {
			log.Warn().Err(err).Str("marker", s.transient).Msg("Failed to remove marker")
		}
		s.transient = ""
	}

	coords := geo.FormatLatLng(p)
	id := s.deps.NewID()
	popup := s.cfg.Transient.Popup + ": " + coords
	if err := e.PlaceMarker(id, p, popup, s.cfg.Transient.Style); err != nil {
		log.Warn().Err(err).Str("coords", coords).Msg("Failed to place marker")
	} else {
		s.transient = id
	}

	if s.deps.Readout != nil {
		s.deps.Readout.SetText(s.cfg.Readout.Click, coords)
	}
}

// HandleHover shows p in the hover readout. The map is left untouched.
func (s *Shell) HandleHover(p orb.Point) {
	if s.deps.Readout == nil {
		return
	}
	s.deps.Readout.SetText(s.cfg.Readout.Hover, geo.FormatHover(p, s.deps.Engine.Zoom()))
}

// HandleBasemapChange records the basemap picked in the selector.
func (s *Shell) HandleBasemapChange(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.control != nil {
		s.control.SelectBasemap(name)
	}
}

// HandleOverlayToggle records an overlay shown or hidden in the selector.
func (s *Shell) HandleOverlayToggle(name string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.control != nil {
		s.control.SetOverlay(name, visible)
	}
}

// Transient returns the id of the user placed marker, empty when none.
func (s *Shell) Transient() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transient
}

// Close stops the pending onboarding timer.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onboard != nil {
		s.onboard.Stop()
	}
}
