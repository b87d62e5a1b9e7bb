package cmd

import (
	"github.com/Digital-Shane/tvshowinfo/internal/config"
	"github.com/Digital-Shane/tvshowinfo/internal/provider"
	"github.com/spf13/afero"
)

// failingProvider rejects its configuration the way a failed login does.
type failingProvider struct{ fakeProvider }

func (f *failingProvider) Capabilities() provider.ProviderCapabilities {
	caps := f.fakeProvider.Capabilities()
	caps.RequiresAuth = true
	return caps
}

func (f *failingProvider) Configure(map[string]interface{}) error {
	return &provider.ProviderError{Provider: "fake", Code: provider.CodeAuthFailed, Message: "login rejected"}
}

func loadTestConfig(providerName string) (*config.Config, error) {
	cfg, err := config.Load(afero.NewMemMapFs(), nil)
	if err != nil {
		return nil, err
	}
	cfg.Provider = providerName
	return cfg, nil
}
