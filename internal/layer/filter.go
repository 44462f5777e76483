package layer

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/paulmach/orb/geojson"
)

// Filter is a compiled boolean expression deciding which features a layer keeps.
//
// The expression sees two variables: properties (the feature property map)
// and geometry (the GeoJSON geometry type name, e.g. "Polygon").
type Filter struct {
	program *vm.Program
	source  string
}

// CompileFilter compiles src. An empty src yields a nil filter that keeps everything.
func CompileFilter(src string) (*Filter, error) {
	if src == "" {
		return nil, nil
	}

	program, err := expr.Compile(src, expr.Env(filterEnv(nil, "")))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("compile filter %q: %w", src, err)}
	}

	return &Filter{program: program, source: src}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	return f.source
}

// Match evaluates the filter against one feature.
func (f *Filter) Match(feature *geojson.Feature) (bool, error) {
	geometry := ""
	if feature.Geometry != nil {
		geometry = feature.Geometry.GeoJSONType()
	}

	out, err := expr.Run(f.program, filterEnv(feature.Properties, geometry))
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.source, err)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("filter %q returned %T, want bool", f.source, out)
	}
	return ok, nil
}

func filterEnv(props geojson.Properties, geometry string) map[string]interface{} {
	if props == nil {
		props = geojson.Properties{}
	}
	return map[string]interface{}{
		"properties": map[string]interface{}(props),
		"geometry":   geometry,
	}
}
