package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/tvshowinfo/internal/alias"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TVSHOWINFO_TVDB_API_KEY.
const EnvPrefix = "TVSHOWINFO"

// Config holds the settings that are not part of a single query.
type Config struct {
	Provider       string `mapstructure:"provider"`
	Language       string `mapstructure:"language"`
	AliasPath      string `mapstructure:"alias_path"`
	AliasFile      string `mapstructure:"alias_file"`
	TMDBAliasFile  string `mapstructure:"tmdb_alias_file"`
	OMDBAliasFile  string `mapstructure:"omdb_alias_file"`
	TVDBAPIKey     string `mapstructure:"tvdb_api_key"`
	TMDBAPIKey     string `mapstructure:"tmdb_api_key"`
	OMDBAPIKey     string `mapstructure:"omdb_api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Provider:       "tvdb",
		Language:       "en",
		AliasPath:      alias.DefaultPath,
		AliasFile:      alias.FileName,
		TimeoutSeconds: 10,
	}
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"provider":   "provider",
	"language":   "language",
	"alias_path": "alias-path",
}

// Load merges defaults, an optional config.json, TVSHOWINFO_* environment
// variables and explicitly set flags, in increasing precedence. config.json
// is looked for in the alias directories and in ~/.tvshowinfo.
func Load(fs afero.Fs, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	defaults := DefaultConfig()
	v.SetDefault("provider", defaults.Provider)
	v.SetDefault("language", defaults.Language)
	v.SetDefault("alias_path", defaults.AliasPath)
	v.SetDefault("alias_file", defaults.AliasFile)
	v.SetDefault("tmdb_alias_file", defaults.TMDBAliasFile)
	v.SetDefault("omdb_alias_file", defaults.OMDBAliasFile)
	v.SetDefault("tvdb_api_key", defaults.TVDBAPIKey)
	v.SetDefault("tmdb_api_key", defaults.TMDBAPIKey)
	v.SetDefault("omdb_api_key", defaults.OMDBAPIKey)
	v.SetDefault("timeout_seconds", defaults.TimeoutSeconds)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("json")
	for _, dir := range SearchDirs(v.GetString("alias_path")) {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Fill in anything explicitly blanked with defaults
	if strings.TrimSpace(cfg.Provider) == "" {
		cfg.Provider = defaults.Provider
	}
	if strings.TrimSpace(cfg.AliasPath) == "" {
		cfg.AliasPath = defaults.AliasPath
	}
	if strings.TrimSpace(cfg.AliasFile) == "" {
		cfg.AliasFile = defaults.AliasFile
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaults.TimeoutSeconds
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	return &cfg, nil
}

// SearchDirs lists the directories searched for config.json.
func SearchDirs(aliasPath string) []string {
	var dirs []string
	for _, dir := range filepath.SplitList(aliasPath) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".tvshowinfo"))
	}
	return dirs
}

// APIKey returns the configured key for a provider.
func (c *Config) APIKey(providerName string) string {
	switch providerName {
	case "tvdb":
		return c.TVDBAPIKey
	case "tmdb":
		return c.TMDBAPIKey
	case "omdb":
		return c.OMDBAPIKey
	default:
		return ""
	}
}

// AliasFileFor returns the alias table holding ids of the named provider.
// exceptions.txt carries TVDB ids, so the other backends only get a table
// when one is configured for them.
func (c *Config) AliasFileFor(providerName string) string {
	switch providerName {
	case "tvdb":
		return c.AliasFile
	case "tmdb":
		return strings.TrimSpace(c.TMDBAliasFile)
	case "omdb":
		return strings.TrimSpace(c.OMDBAliasFile)
	default:
		return ""
	}
}

// ProviderConfig builds the configuration map handed to a provider's
// Configure.
func (c *Config) ProviderConfig(providerName string) map[string]interface{} {
	cfg := map[string]interface{}{
		"api_key": strings.TrimSpace(c.APIKey(providerName)),
	}
	switch providerName {
	case "tmdb":
		cfg["language"] = c.Language
	case "omdb":
		cfg["timeout_seconds"] = c.TimeoutSeconds
	}
	return cfg
}
