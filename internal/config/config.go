package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

const (
	// DefaultPath is read when no -config flag is given
	DefaultPath = "raybrowser.toml"

	// ServerEnvVar overrides server.url
	ServerEnvVar = "RAYBROWSER_SERVER"
)

// Config is the full application configuration
type Config struct {
	Server ServerConfig `toml:"server"`
	Browse BrowseConfig `toml:"browse"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig locates the remote data service
type ServerConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// BrowseConfig tunes navigation and prefetching
type BrowseConfig struct {
	Map             int      `toml:"map"`
	KmerLength      int      `toml:"kmer_length"`
	DefaultDepth    int      `toml:"default_depth"`
	WindowSize      int      `toml:"window_size"`
	ReadaheadBuffer int      `toml:"readahead_buffer"`
	Tick            string   `toml:"tick"`
	Palette         []string `toml:"palette"`
}

// CacheConfig locates the element detail cache
type CacheConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls the log file and level
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost/cgi-bin/RayCloudBrowser.webServer.cgi",
			Timeout: "30s",
		},
		Browse: BrowseConfig{
			Map:             0,
			KmerLength:      31,
			DefaultDepth:    64,
			WindowSize:      512,
			ReadaheadBuffer: 1024,
			Tick:            "100ms",
			Palette:         []string{"#5050ff", "#ff5050", "#50ff50"},
		},
		Cache: CacheConfig{Path: ":memory:"},
		Log: LogConfig{
			File:  "raybrowser_debug.log",
			Level: "info",
		},
	}
}

// Load reads path over the defaults, applies the environment override and
// validates. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if server := os.Getenv(ServerEnvVar); server != "" {
		cfg.Server.URL = server
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over cfg. Keys absent from data keep their values.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing toml: %w", err)
	}
	return nil
}

// Validate checks every field
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Server.URL != "", "server.url is empty")
	check(c.Browse.Map >= 0, "browse.map must not be negative, got %d", c.Browse.Map)
	check(c.Browse.KmerLength > 0, "browse.kmer_length must be positive, got %d", c.Browse.KmerLength)
	check(c.Browse.DefaultDepth > 0, "browse.default_depth must be positive, got %d", c.Browse.DefaultDepth)
	check(c.Browse.WindowSize > 0, "browse.window_size must be positive, got %d", c.Browse.WindowSize)
	check(c.Browse.ReadaheadBuffer > 0, "browse.readahead_buffer must be positive, got %d", c.Browse.ReadaheadBuffer)
	check(len(c.Browse.Palette) >= 3, "browse.palette needs at least 3 colors, got %d", len(c.Browse.Palette))
	check(c.Cache.Path != "", "cache.path is empty")

	checkDuration := func(name, value string) {
		d, err := time.ParseDuration(value)
		if err != nil {
			check(false, "%s %q: %v", name, value, err)
			return
		}
		check(d > 0, "%s must be positive, got %s", name, value)
	}
	checkDuration("server.timeout", c.Server.Timeout)
	checkDuration("browse.tick", c.Browse.Tick)

	return errors.Join(errs...)
}

// Timeout is the parsed server.timeout
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.Timeout)
	return d
}

// Tick is the parsed browse.tick
func (c *Config) Tick() time.Duration {
	d, _ := time.ParseDuration(c.Browse.Tick)
	return d
}
