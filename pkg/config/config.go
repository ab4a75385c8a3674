// Package config loads crateinfo's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/crateinfo/config.toml, falling back to
// ~/.config/crateinfo/config.toml. A missing file is not an error; every
// field has a default. Example:
//
//	api_root = "https://crates.io/api/v1"
//	timeout = "10s"
//	concurrency = 4
//	requests_per_second = 1.0
//
//	[server]
//	addr = ":8080"
//
// The CRATEINFO_API_ROOT environment variable overrides api_root.
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

	"github.com/BurntSushi/toml"

	cerrors "github.com/matzehuels/crateinfo/pkg/errors"
)

const (
	appName  = "crateinfo"
	fileName = "config.toml"

	// EnvAPIRoot overrides the api_root setting.
	EnvAPIRoot = "CRATEINFO_API_ROOT"
)

// Defaults.
const (
	DefaultAPIRoot           = "https://crates.io/api/v1"
	DefaultTimeout           = 10 * time.Second
	DefaultConcurrency       = 4
	DefaultRequestsPerSecond = 1.0
	DefaultServerAddr        = ":8080"
)

// Config is the full configuration.
type Config struct {
	// APIRoot is the crates.io API root, without the /crates suffix.
	APIRoot string `toml:"api_root"`
	// UserAgent replaces the built-in User-Agent when non-empty.
	UserAgent string `toml:"user_agent,omitempty"`
	// Timeout bounds each HTTP round trip.
	Timeout Duration `toml:"timeout"`
	// Concurrency is the number of crates queried at once by batch commands.
	Concurrency int `toml:"concurrency"`
	// RequestsPerSecond paces batch commands.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("10s", "1m30s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIRoot:           DefaultAPIRoot,
		Timeout:           Duration{DefaultTimeout},
		Concurrency:       DefaultConcurrency,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Server:            ServerConfig{Addr: DefaultServerAddr},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config file at path on top of [Default], applies the
// environment override and validates the result. A missing file yields the
// defaults. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "read %s", path)
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, cerrors.New(cerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIRoot); v != "" {
		c.APIRoot = v
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if err := cerrors.ValidateURL(c.APIRoot); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "api_root")
	}
	if c.Timeout.Duration <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	if c.Concurrency <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "concurrency must be positive, got %d", c.Concurrency)
	}
	if c.RequestsPerSecond <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "requests_per_second must be positive, got %g", c.RequestsPerSecond)
	}
	if c.Server.Addr == "" {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	return nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
