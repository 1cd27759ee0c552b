package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/minios-linux/autotrans/placeholder"
)

// ProviderConfig is the opaque configuration handed to a provider factory.
type ProviderConfig struct {
	// APIKey is the secret used by metered providers.
	APIKey string
	// MaxSegments overrides the provider's batch ceiling when > 0.
	MaxSegments int
	// Artifacts adds direction-keyed cleanups for providers that restore
	// placeholders themselves.
	Artifacts placeholder.ArtifactTable
	// Logger receives provider diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Factory builds a Provider from configuration.
type Factory func(ctx context.Context, cfg ProviderConfig) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a provider available under name. It panics when called
// twice with the same name or with a nil factory, like sql.Register.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		panic("translate: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("translate: Register called twice for provider " + name)
	}
	registry[name] = f
}

// Providers returns the sorted names of registered providers.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the provider registered under name. Unknown names and
// factory failures are reported as *ConfigurationError.
func Resolve(ctx context.Context, name string, cfg ProviderConfig) (Provider, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{
			Setting: "provider",
			Err:     fmt.Errorf("%w %q (available: %v)", ErrUnknownProvider, name, Providers()),
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	p, err := f(ctx, cfg)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, &ConfigurationError{Setting: "provider " + name, Err: err}
	}
	return p, nil
}
