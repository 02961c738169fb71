package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/anchorlayout/pkg/cache"
	"github.com/matzehuels/anchorlayout/pkg/pipeline"
)

// Environment variables that override the config file.
const (
	envCacheDir = "ANCHORLAYOUT_CACHE_DIR"
	envRedisURL = "ANCHORLAYOUT_REDIS_URL"
	envAddr     = "ANCHORLAYOUT_ADDR"
)

// Config is the CLI configuration file.
//
//	[cache]
//	dir = "/var/cache/anchorlayout"
//
//	[solve]
//	disable_graph = true
//
//	[serve]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Cache CacheConfig      `toml:"cache"`
	Solve pipeline.Options `toml:"solve"`
	Serve ServeConfig      `toml:"serve"`
}

// CacheConfig configures the local result cache.
type CacheConfig struct {
	Dir     string `toml:"dir"`
	Disable bool   `toml:"disable"`
}

// ServeConfig configures the HTTP service.
type ServeConfig struct {
	Addr        string   `toml:"addr"`
	RedisURL    string   `toml:"redis_url"`
	RedisPrefix string   `toml:"redis_prefix"`
	Timeout     Duration `toml:"timeout"`
	MaxBody     int64    `toml:"max_body"`
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
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

const (
	defaultAddr    = ":8080"
	defaultTimeout = 30 * time.Second
	defaultMaxBody = 1 << 20
)

// defaultConfigPath returns $XDG_CONFIG_HOME/anchorlayout/config.toml.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// loadConfig reads the config file at path. A missing file is only an
// error when the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(envRedisURL); v != "" {
		c.Serve.RedisURL = v
	}
	if v := os.Getenv(envAddr); v != "" {
		c.Serve.Addr = v
	}
}

func (c *Config) setDefaults() {
	if c.Cache.Dir == "" {
		if dir, err := cache.DefaultDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaultAddr
	}
	if c.Serve.Timeout.Duration == 0 {
		c.Serve.Timeout.Duration = defaultTimeout
	}
	if c.Serve.MaxBody == 0 {
		c.Serve.MaxBody = defaultMaxBody
	}
}
