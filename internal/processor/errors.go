package processor

import "fmt"

// RetrievalError reports a source that could not be fetched.
type RetrievalError struct {
	Err        error
	Source     string
	StatusCode int
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("retrieve %q: status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("retrieve %q: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
