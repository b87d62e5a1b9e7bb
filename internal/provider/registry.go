package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages all available providers
type Registry struct {
	mu         sync.RWMutex
	providers  map[string]Provider
	priorities map[string]int
	configured map[string]bool
}

// GlobalRegistry is the default registry instance
var GlobalRegistry = NewRegistry()

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers:  make(map[string]Provider),
		priorities: make(map[string]int),
		configured: make(map[string]bool),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, provider Provider, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	// Validate provider capabilities
	if err := ValidateCapabilities(provider.Capabilities()); err != nil {
		return fmt.Errorf("invalid provider capabilities for %s: %w", name, err)
	}

	r.providers[name] = provider
	r.priorities[name] = priority

	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	return provider, exists
}

// List returns all registered providers
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}

	// Sort by priority
	sort.Slice(names, func(i, j int) bool {
		if r.priorities[names[i]] == r.priorities[names[j]] {
			return names[i] < names[j]
		}
		return r.priorities[names[i]] > r.priorities[names[j]]
	})

	return names
}

// Configure validates the configuration against the provider schema and
// applies it.
func (r *Registry) Configure(name string, config map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	provider, exists := r.providers[name]
	if !exists {
		return fmt.Errorf("provider %s not found", name)
	}

	if err := ValidateConfig(provider.ConfigSchema(), config); err != nil {
		return fmt.Errorf("invalid configuration for provider %s: %w", name, err)
	}

	// Apply configuration to provider
	if err := provider.Configure(config); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", name, err)
	}

	r.configured[name] = true

	return nil
}

// Select returns a configured provider ready to serve lookups.
func (r *Registry) Select(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	if provider.Capabilities().RequiresAuth && !r.configured[name] {
		return nil, fmt.Errorf("provider %s requires configuration", name)
	}

	return provider, nil
}
