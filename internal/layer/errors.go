package layer

import "fmt"

// ParseError reports a document that is not a usable feature collection.
type ParseError struct {
	Err    error
	Source string
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse feature collection: %v", e.Err)
	}
	return fmt.Sprintf("parse feature collection %q: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid layer setup, such as two layers sharing a name.
type ConfigurationError struct {
	Name   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("layer %q: %s", e.Name, e.Reason)
}

func duplicateName(name string) *ConfigurationError {
	return &ConfigurationError{Name: name, Reason: "duplicate layer name"}
}
