// Package config handles XDG configuration directories, file paths and the
// settings loaded from config.yaml.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// EnvPrefix prefixes environment overrides, e.g. TASKDECK_BASE_URL.
	EnvPrefix = "TASKDECK"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored bearer/OAuth token filename.
	TokenFile = "token.json"

	DefaultBaseURL    = "http://localhost:8080/api"
	DefaultTimeout    = 5 * time.Second
	DefaultStaleTime  = 5 * time.Minute
	DefaultRetry      = 1
	DefaultCacheTTL   = 24 * time.Hour
	DefaultOAuthScope = "tasks"
)

// Settings are the values that may come from config.yaml or the environment.
type Settings struct {
	// BaseURL is the root of the REST task API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Timeout bounds every API call.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// StaleTime is how long the task list query is served from cache.
	StaleTime time.Duration `mapstructure:"stale_time" yaml:"stale_time"`

	// Retry is the number of retries for failed queries.
	Retry int `mapstructure:"retry" yaml:"retry"`

	// CacheDir holds the on-disk query cache.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`

	// CacheTTL is how long an unused cache entry is kept on disk.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`

	// OAuthScope is requested during `login`.
	OAuthScope string `mapstructure:"oauth_scope" yaml:"oauth_scope"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	Settings

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// NoCache makes reads skip stored queries for this invocation.
	NoCache bool

	// In is where confirmation prompts read answers from.
	In io.Reader
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		StaleTime:  DefaultStaleTime,
		Retry:      DefaultRetry,
		CacheDir:   DefaultCacheDir(),
		CacheTTL:   DefaultCacheTTL,
		OAuthScope: DefaultOAuthScope,
	}
}

// New creates a new Config with the default or specified config directory
// and built-in settings. If configDir is empty, uses
// XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load is New plus config.yaml from the config directory and TASKDECK_*
// environment overrides. A missing config.yaml is not an error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	def := cfg.Settings
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("stale_time", def.StaleTime)
	v.SetDefault("retry", def.Retry)
	v.SetDefault("cache_dir", def.CacheDir)
	v.SetDefault("cache_ttl", def.CacheTTL)
	v.SetDefault("oauth_scope", def.OAuthScope)

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		v.SetConfigFile(cfg.ConfigPath())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.Retry < 0 {
		s.Retry = 0
	}
	cfg.Settings = s
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultCacheDir returns the default query cache directory.
// Uses XDG_CACHE_HOME if set, otherwise $HOME/.cache.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

// CacheScopeDir returns the query cache directory for the configured base
// URL, so cached results from one backend never answer for another. It is
// empty when the disk cache is off.
func (c *Config) CacheScopeDir() string {
	if c.CacheDir == "" {
		return ""
	}
	scope := uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.TrimRight(c.BaseURL, "/")))
	return filepath.Join(c.CacheDir, scope.String())
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
