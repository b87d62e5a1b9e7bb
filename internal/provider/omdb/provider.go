package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
)

const (
	providerName = "omdb"

	defaultTimeout = 10 * time.Second
)

// Provider implements the provider.Provider interface for OMDb.
type Provider struct {
	client     *omdb.Client
	httpClient *http.Client
	apiKey     string
	config     map[string]interface{}
}

// New creates a new OMDb provider instance.
func New() *Provider {
	return &Provider{
		config: make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "Open Movie Database (OMDB) provided metadata"
}

// Capabilities returns what this provider can handle. OMDb only knows
// season/episode numbering.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		Features: []provider.Feature{
			provider.FeatureSearch,
			provider.FeatureFetchByID,
		},
		RequiresAuth: true,
		Priority:     80,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "OMDb API key. Request one from https://www.omdbapi.com/apikey.aspx",
				Sensitive:   true,
				Validation: &provider.ConfigFieldValidation{
					MinLength: 6,
					MaxLength: 64,
					Pattern:   "^[A-Za-z0-9]+$",
				},
			},
			{
				Name:        "timeout_seconds",
				DisplayName: "Timeout",
				Type:        provider.ConfigFieldTypeInt,
				Required:    false,
				Default:     int(defaultTimeout / time.Second),
				Description: "HTTP timeout for each OMDb request, in seconds",
				Validation: &provider.ConfigFieldValidation{
					MinValue: 1,
					MaxValue: 300,
				},
			},
		},
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	// A client injected before configuration (tests) is kept as is.
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: timeoutFrom(config)}
	}

	p.apiKey = apiKey
	p.config = config
	p.client = omdb.NewClient(p.apiKey, p.httpClient)

	return nil
}

func timeoutFrom(config map[string]interface{}) time.Duration {
	switch v := config["timeout_seconds"].(type) {
	case int:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case int64:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case float64:
		if v > 0 {
			return time.Duration(v * float64(time.Second))
		}
	}
	return defaultTimeout
}

func (p *Provider) ready(ctx context.Context) error {
	if p.client == nil || p.apiKey == "" {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotConfigured,
			Message:  "provider not configured",
			Retry:    false,
		}
	}
	return ctx.Err()
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"), strings.Contains(lower, "no api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "OMDb authentication failed: " + msg,
			Retry:    false,
		}
	case strings.Contains(lower, "not found"), strings.Contains(lower, "incorrect imdb id"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  msg,
			Retry:    false,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  msg,
			Retry:    false,
		}
	}
}
