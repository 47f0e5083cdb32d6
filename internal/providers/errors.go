package providers

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable signals a nil or unconfigured provider in a chain.
var ErrProviderUnavailable = errors.New("snapshot provider unavailable")

// ScopeNotFoundError is fatal to the session: no backing show exists for the
// given key. Consumers surface it as a terminal state and do not retry.
type ScopeNotFoundError struct {
	Key string
}

func (e *ScopeNotFoundError) Error() string {
	return fmt.Sprintf("scope %q not found", e.Key)
}

// IsScopeNotFound reports whether err wraps a ScopeNotFoundError.
func IsScopeNotFound(err error) bool {
	var snf *ScopeNotFoundError
	return errors.As(err, &snf)
}

// QueryError is a transient query failure attributed to a fetch path. The
// next debounce or poll cycle retries automatically.
type QueryError struct {
	Path string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Path, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// AsQueryError attempts to unwrap err into a QueryError.
func AsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
