package translate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProvider is wrapped in a ConfigurationError when a provider
	// name cannot be resolved.
	ErrUnknownProvider = errors.New("unknown translation provider")
	// ErrMissingCredential is wrapped in a ConfigurationError when a
	// provider needs an API key and none was supplied.
	ErrMissingCredential = errors.New("missing credential")
	// ErrOptimizedUnsupported is returned by providers that cannot produce
	// lazily evaluated results.
	ErrOptimizedUnsupported = errors.New("optimized mode is not supported by this provider")
	// ErrSegmentMismatch is wrapped in a ProviderError when a batch call
	// returns a different number of segments than it was given.
	ErrSegmentMismatch = errors.New("provider returned a different number of segments")
	// ErrInvalidDirection is returned for an empty or identical language pair.
	ErrInvalidDirection = errors.New("invalid translation direction")
)

// ProviderError is a failure of the translation backend: network, auth,
// quota or malformed input. It is never retried here.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ConfigurationError reports a provider that cannot be built from the
// supplied configuration. It is fatal at startup.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
