package processor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/layer"
)

// sourceServer serves named documents and records the request order.
type sourceServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	inFlight int32
	maxPar   int32
}

func newSourceServer(t *testing.T, docs map[string]string, statuses map[string]int, delays map[string]time.Duration) *sourceServer {
	t.Helper()

	s := &sourceServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&s.inFlight, 1)
		defer atomic.AddInt32(&s.inFlight, -1)
		for {
			m := atomic.LoadInt32(&s.maxPar)
			if n <= m || atomic.CompareAndSwapInt32(&s.maxPar, m, n) {
				break
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		s.mu.Unlock()

		time.Sleep(delays[r.URL.Path])

		if code, ok := statuses[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *sourceServer) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func collection(name string) string {
	return `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"` + name + `"}}]}`
}

func newTestSequencer(t *testing.T, srv *sourceServer) *Sequencer {
	t.Helper()
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	return NewSequencer(srv.Client(), WithBaseURL(base))
}

func TestRunKeepsDescriptorOrder(t *testing.T) {
	srv := newSourceServer(t,
		map[string]string{"/a.geojson": collection("A"), "/b.geojson": collection("B"), "/c.geojson": collection("C")},
		nil,
		// the first source is the slowest; order must still follow the descriptors
		map[string]time.Duration{"/a.geojson": 50 * time.Millisecond, "/b.geojson": 10 * time.Millisecond})
	seq := newTestSequencer(t, srv)

	descriptors := []config.Layer{
		{Name: "A", Label: "name", Source: "a.geojson"},
		{Name: "B", Label: "name", Source: "b.geojson"},
		{Name: "C", Label: "name", Source: srv.URL + "/c.geojson"},
	}
	markers := layer.FromMarkers([]layer.Marker{{At: [2]float64{0, 0}, Popup: "M"}}, layer.Style{})

	calls := 0
	var got *layer.GroupMapping
	err := seq.Run(context.Background(), descriptors, []layer.Named{{Name: "Markers", Layer: markers}}, func(m *layer.GroupMapping) {
		calls++
		got = m
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if calls != 1 {
		t.Fatalf("onComplete called %d times", calls)
	}
	if diff := cmp.Diff([]string{"Markers", "A", "B", "C"}, got.Names()); diff != "" {
		t.Errorf("mapping order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/a.geojson", "/b.geojson", "/c.geojson"}, srv.requested()); diff != "" {
		t.Errorf("request order (-want +got):\n%s", diff)
	}
	if n := atomic.LoadInt32(&srv.maxPar); n != 1 {
		t.Errorf("max parallel requests = %d, want 1", n)
	}

	b, _ := got.Get("B")
	if b.Features[0].Popup != "B" {
		t.Errorf("layer B popup = %q", b.Features[0].Popup)
	}

	// the caller's descriptors are never rewritten
	if descriptors[0].Source != "a.geojson" {
		t.Errorf("descriptor mutated: %+v", descriptors[0])
	}
}

func TestRunStopsOnRetrievalError(t *testing.T) {
	srv := newSourceServer(t,
		map[string]string{"/b.geojson": collection("B")},
		map[string]int{"/a.geojson": http.StatusInternalServerError},
		nil)
	seq := newTestSequencer(t, srv)

	called := false
	err := seq.Run(context.Background(), []config.Layer{
		{Name: "A", Label: "name", Source: "a.geojson"},
		{Name: "B", Label: "name", Source: "b.geojson"},
	}, nil, func(*layer.GroupMapping) { called = true })

	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RetrievalError", err)
	}
	if re.StatusCode != http.StatusInternalServerError || re.Source != "a.geojson" {
		t.Errorf("retrieval error = %+v", re)
	}
	if called {
		t.Error("onComplete called after a failed step")
	}
	if diff := cmp.Diff([]string{"/a.geojson"}, srv.requested()); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
}

func TestRunStopsOnParseError(t *testing.T) {
	srv := newSourceServer(t,
		map[string]string{"/a.geojson": collection("A"), "/b.geojson": "not json", "/c.geojson": collection("C")},
		nil, nil)
	seq := newTestSequencer(t, srv)

	called := false
	err := seq.Run(context.Background(), []config.Layer{
		{Name: "A", Label: "name", Source: "a.geojson"},
		{Name: "B", Label: "name", Source: "b.geojson"},
		{Name: "C", Label: "name", Source: "c.geojson"},
	}, nil, func(*layer.GroupMapping) { called = true })

	var pe *layer.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *layer.ParseError", err)
	}
	if called {
		t.Error("onComplete called after a failed step")
	}
	if diff := cmp.Diff([]string{"/a.geojson", "/b.geojson"}, srv.requested()); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
}

func TestRunEmptyDescriptors(t *testing.T) {
	seq := NewSequencer(nil)
	markers := layer.FromMarkers([]layer.Marker{{At: [2]float64{1, 1}}}, layer.Style{})

	var got *layer.GroupMapping
	err := seq.Run(context.Background(), nil, []layer.Named{{Name: "Markers", Layer: markers}}, func(m *layer.GroupMapping) {
		got = m
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got == nil {
		t.Fatal("onComplete not called")
	}
	if diff := cmp.Diff([]string{"Markers"}, got.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestRunRejectsDuplicateNamesBeforeFetching(t *testing.T) {
	srv := newSourceServer(t, map[string]string{"/a.geojson": collection("A")}, nil, nil)
	seq := newTestSequencer(t, srv)

	cases := []struct {
		name        string
		descriptors []config.Layer
		preparsed   []layer.Named
	}{
		{
			name: "descriptors",
			descriptors: []config.Layer{
				{Name: "A", Source: "a.geojson"},
				{Name: "A", Source: "a.geojson"},
			},
		},
		{
			name:        "preparsed clash",
			descriptors: []config.Layer{{Name: "Markers", Source: "a.geojson"}},
			preparsed:   []layer.Named{{Name: "Markers", Layer: &layer.Layer{}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := seq.Run(context.Background(), tc.descriptors, tc.preparsed, func(*layer.GroupMapping) {
				t.Error("onComplete called")
			})
			var ce *layer.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *layer.ConfigurationError", err)
			}
		})
	}

	if n := len(srv.requested()); n != 0 {
		t.Errorf("%d requests issued for an invalid configuration", n)
	}
}

func TestRunAppliesDescriptorFilter(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"Dnipro","kind":"river"}},` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[3,4]},"properties":{"name":"Kyiv","kind":"city"}}]}`
	srv := newSourceServer(t, map[string]string{"/all.geojson": doc}, nil, nil)
	seq := newTestSequencer(t, srv)

	var got *layer.GroupMapping
	err := seq.Run(context.Background(), []config.Layer{
		{Name: "Rivers", Label: "name", Source: "all.geojson", Filter: `properties.kind == "river"`},
	}, nil, func(m *layer.GroupMapping) { got = m })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rivers, _ := got.Get("Rivers")
	if len(rivers.Features) != 1 || rivers.Features[0].Popup != "Dnipro" {
		t.Errorf("filtered layer = %+v", rivers.Features)
	}
}

func TestRunInvalidFilter(t *testing.T) {
	err := NewSequencer(nil).Run(context.Background(), []config.Layer{
		{Name: "A", Source: "a.geojson", Filter: "properties.x =="},
	}, nil, func(*layer.GroupMapping) { t.Error("onComplete called") })

	var pe *layer.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *layer.ParseError", err)
	}
}

func TestRunReadsFilesFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "local.geojson"), []byte(collection("Local")), 0644); err != nil {
		t.Fatal(err)
	}

	seq := NewSequencer(nil, WithBaseDir(dir))

	var got *layer.GroupMapping
	err := seq.Run(context.Background(), []config.Layer{
		{Name: "Local", Label: "name", Source: "local.geojson"},
		{Name: "Abs", Label: "name", Source: "file://" + filepath.Join(dir, "local.geojson")},
	}, nil, func(m *layer.GroupMapping) { got = m })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	l, _ := got.Get("Abs")
	if l.Features[0].Popup != "Local" {
		t.Errorf("popup = %q", l.Features[0].Popup)
	}
}

func TestRunMissingFile(t *testing.T) {
	seq := NewSequencer(nil, WithBaseDir(t.TempDir()))
	err := seq.Run(context.Background(), []config.Layer{{Name: "X", Source: "missing.geojson"}}, nil,
		func(*layer.GroupMapping) { t.Error("onComplete called") })

	var re *RetrievalError
	if !errors.As(err, &re) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want *RetrievalError wrapping ErrNotExist", err)
	}
}

func TestRunCanceledContext(t *testing.T) {
	srv := newSourceServer(t, map[string]string{"/a.geojson": collection("A")}, nil, nil)
	seq := newTestSequencer(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := seq.Run(ctx, []config.Layer{{Name: "A", Source: "a.geojson"}}, nil,
		func(*layer.GroupMapping) { t.Error("onComplete called") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestEntryTransitions(t *testing.T) {
	e := Pending(config.Layer{Name: "Rivers", Source: "rivers.geojson"})
	if e.IsRealized() || e.Layer() != nil || e.Name() != "Rivers" {
		t.Errorf("pending entry = %+v", e)
	}

	f, err := layer.CompileFilter(`properties.kind == "river"`)
	if err != nil {
		t.Fatalf("CompileFilter: %v", err)
	}
	filtered := e.withFilter(f)
	if filtered.filter != f || filtered.Descriptor() != e.Descriptor() || filtered.IsRealized() {
		t.Errorf("filtered entry = %+v", filtered)
	}
	if e.filter != nil {
		t.Error("withFilter modified the original entry")
	}

	l := &layer.Layer{}
	r := Realized("Rivers", l)
	if !r.IsRealized() || r.Layer() != l || r.Name() != "Rivers" {
		t.Errorf("realized entry = %+v", r)
	}
}
