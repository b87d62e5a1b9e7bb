// Package catalog registers the built-in metadata backends. It lives apart
// from package provider so the backends can import provider without a cycle.
package catalog

import (
	"fmt"

	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	"github.com/Digital-Shane/tvshowinfo/internal/provider/omdb"
	"github.com/Digital-Shane/tvshowinfo/internal/provider/tmdb"
	"github.com/Digital-Shane/tvshowinfo/internal/provider/tvdb"
)

// DefaultProvider is the backend used when none is configured.
const DefaultProvider = "tvdb"

// LoadBuiltinProviders registers every built-in provider in reg.
func LoadBuiltinProviders(reg *provider.Registry) error {
	builtins := []provider.Provider{
		tvdb.New(),
		tmdb.New(),
		omdb.New(),
	}

	for _, p := range builtins {
		if err := reg.Register(p.Name(), p, p.Capabilities().Priority); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", p.Name(), err)
		}
	}

	return nil
}
