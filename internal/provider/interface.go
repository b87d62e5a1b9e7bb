package provider

import (
	"context"
	"errors"
	"fmt"
)

// Feature names an optional ability of a metadata backend
type Feature string

const (
	FeatureSearch          Feature = "search"
	FeatureFetchByID       Feature = "fetch_by_id"
	FeatureAbsoluteNumbers Feature = "absolute_numbers"
)

// Provider is the main interface that all metadata providers must implement
type Provider interface {
	// Identification
	Name() string
	Description() string

	// Capability discovery
	Capabilities() ProviderCapabilities

	// Configuration
	Configure(config map[string]interface{}) error
	ConfigSchema() ConfigSchema

	// Data fetching
	FetchShow(ctx context.Context, id int, language string) (*Show, error)
	SearchShows(ctx context.Context, name, language string) ([]SearchResult, error)
}

// ProviderCapabilities describes what a provider can do
type ProviderCapabilities struct {
	Features     []Feature // What the backend can answer
	RequiresAuth bool      // Whether authentication is required
	Priority     int       // Default priority for this provider (higher = preferred)
}

// Supports reports whether the capabilities include the given feature.
func (c ProviderCapabilities) Supports(feature Feature) bool {
	for _, f := range c.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// ConfigSchema describes the configuration requirements for a provider
type ConfigSchema struct {
	Fields []ConfigField
}

// ConfigField describes a single configuration field
type ConfigField struct {
	Name        string                 // Field name
	DisplayName string                 // Human-readable name
	Type        ConfigFieldType        // Field type
	Required    bool                   // Whether this field is required
	Default     interface{}            // Default value
	Description string                 // Help text
	Validation  *ConfigFieldValidation // Validation rules
	Sensitive   bool                   // Whether this contains sensitive data (for masking)
}

// ConfigFieldType represents the type of a configuration field
type ConfigFieldType string

const (
	ConfigFieldTypeString   ConfigFieldType = "string"
	ConfigFieldTypeInt      ConfigFieldType = "int"
	ConfigFieldTypePassword ConfigFieldType = "password"
)

// ConfigFieldValidation contains validation rules for a field
type ConfigFieldValidation struct {
	MinLength int    // Minimum string length
	MaxLength int    // Maximum string length
	Pattern   string // Regex pattern
	MinValue  int    // Minimum numeric value
	MaxValue  int    // Maximum numeric value
}

// SearchResult is one hit of a free-text show search, in provider ranking order.
type SearchResult struct {
	ID   int
	Name string
	Year string
}

// Error codes carried by ProviderError.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeAuthFailed     = "AUTH_FAILED"
	CodeRateLimited    = "RATE_LIMITED"
	CodeUnavailable    = "UNAVAILABLE"
	CodeNotConfigured  = "NOT_CONFIGURED"
	CodeUnknown        = "UNKNOWN"
)

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// IsNotFound reports whether err is a ProviderError with CodeNotFound.
func IsNotFound(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.Code == CodeNotFound
}
