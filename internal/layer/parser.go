package layer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Format names the encoding of a source document.
type Format string

// Supported source formats.
const (
	FormatGeoJSON Format = "geojson"
	FormatOSM     Format = "osm"
)

// DetectFormat guesses the format from a source location.
func DetectFormat(source string) Format {
	s := strings.ToLower(source)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if strings.HasSuffix(s, ".osm") {
		return FormatOSM
	}
	return FormatGeoJSON
}

type parseOptions struct {
	filter *Filter
	format Format
	source string
}

// Option tunes Parse and FromCollection.
type Option func(*parseOptions)

// WithFormat selects the document format. GeoJSON is the default.
func WithFormat(f Format) Option {
	return func(o *parseOptions) {
		if f != "" {
			o.format = f
		}
	}
}

// WithFilter keeps only features accepted by f.
func WithFilter(f *Filter) Option {
	return func(o *parseOptions) { o.filter = f }
}

// WithSource attaches the document origin to parse errors.
func WithSource(source string) Option {
	return func(o *parseOptions) { o.source = source }
}

func newParseOptions(opts []Option) parseOptions {
	po := parseOptions{format: FormatGeoJSON}
	for _, opt := range opts {
		opt(&po)
	}
	return po
}

// Parse converts a raw document into a layer. Every feature gets a popup
// with the value of labelAttribute, or Placeholder when the value is missing.
func Parse(document []byte, labelAttribute string, style Style, opts ...Option) (*Layer, error) {
	po := newParseOptions(opts)

	var (
		fc  *geojson.FeatureCollection
		err error
	)
	switch po.format {
	case FormatOSM:
		fc, err = decodeOSM(document)
	case FormatGeoJSON:
		fc, err = decodeGeoJSON(document)
	default:
		err = fmt.Errorf("unsupported format %q", po.format)
	}
	if err != nil {
		return nil, &ParseError{Source: po.source, Err: err}
	}

	return fromCollection(fc, labelAttribute, style, po)
}

// FromCollection converts an already decoded feature collection into a layer.
func FromCollection(fc *geojson.FeatureCollection, labelAttribute string, style Style, opts ...Option) (*Layer, error) {
	po := newParseOptions(opts)
	if fc == nil {
		return nil, &ParseError{Source: po.source, Err: errors.New("nil feature collection")}
	}
	return fromCollection(fc, labelAttribute, style, po)
}

func fromCollection(fc *geojson.FeatureCollection, labelAttribute string, style Style, po parseOptions) (*Layer, error) {
	l := &Layer{
		Style:    style,
		Features: make([]Feature, 0, len(fc.Features)),
	}

	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			// features without geometry have nothing to draw
			continue
		}

		if po.filter != nil {
			ok, err := po.filter.Match(f)
			if err != nil {
				return nil, &ParseError{Source: po.source, Err: fmt.Errorf("feature %d: %w", i, err)}
			}
			if !ok {
				continue
			}
		}

		l.add(Feature{
			Geometry:   f.Geometry,
			Properties: f.Properties.Clone(),
			Popup:      Label(f.Properties, labelAttribute),
		})
	}

	return l, nil
}

// Label returns the popup text for a property set.
func Label(props geojson.Properties, attribute string) string {
	v, ok := props[attribute]
	if !ok || v == nil {
		return Placeholder
	}
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func decodeGeoJSON(document []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(document)
	if err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected type %q", fc.Type)
	}
	return fc, nil
}
