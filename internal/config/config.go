package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the resource name service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Cache    CacheConfig    `yaml:"cache"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Search   SearchConfig   `yaml:"search"`
	Locate   LocateConfig   `yaml:"locate"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	CompressLevel   int `yaml:"compress_level"` // 0 disables gzip
}

// Cache drivers.
const (
	CacheNone   = "none"
	CacheRedis  = "redis"
	CacheValkey = "valkey"
	CacheBadger = "badger"
)

// CacheConfig selects and configures the resolved record cache.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none, redis, valkey, badger (default: none)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Path             string   `yaml:"path"` // badger directory; empty runs in memory
	TTLSec           int      `yaml:"ttl_sec"` // 0 keeps records until evicted
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ClientCacheTTL   int      `yaml:"client_cache_ttl_sec"` // redis client-side caching, 0 disables
}

// UpstreamConfig locates the OpenStax content services.
type UpstreamConfig struct {
	Host            string `yaml:"host"`
	CMSPagesURL     string `yaml:"cms_pages_url"`
	ReleaseURL      string `yaml:"release_url"`
	AncillariesHost string `yaml:"ancillaries_host"`
	PreloadDir      string `yaml:"preload_dir"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	LibraryFanout   int    `yaml:"library_fanout"`
}

// SearchConfig configures the full-text search index. An empty host disables
// index-backed search.
type SearchConfig struct {
	Host string `yaml:"host"`
}

// LocateConfig bounds resolution concurrency.
type LocateConfig struct {
	Concurrency       int `yaml:"concurrency"`        // default for batch resolution
	LookupConcurrency int `yaml:"lookup_concurrency"` // per orn-lookup request
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "openstax:"
	}
	if c.Upstream.Host == "" {
		c.Upstream.Host = "https://openstax.org"
	}
	if c.Upstream.CMSPagesURL == "" {
		c.Upstream.CMSPagesURL = c.Upstream.Host + "/apps/cms/api/v2/pages"
	}
	if c.Upstream.ReleaseURL == "" {
		c.Upstream.ReleaseURL = c.Upstream.Host + "/rex/release.json"
	}
	if c.Upstream.AncillariesHost == "" {
		c.Upstream.AncillariesHost = "https://ancillaries.openstax.org/"
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 10
	}
	if c.Upstream.LibraryFanout <= 0 {
		c.Upstream.LibraryFanout = 2
	}
	if c.Locate.Concurrency <= 0 {
		c.Locate.Concurrency = 2
	}
	if c.Locate.LookupConcurrency <= 0 {
		c.Locate.LookupConcurrency = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.CompressLevel < 0 || c.HTTP.CompressLevel > 9 {
		return fmt.Errorf("http.compress_level must be between 0 and 9, got %d", c.HTTP.CompressLevel)
	}
	switch c.Cache.Driver {
	case CacheNone, CacheBadger:
	case CacheRedis, CacheValkey:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be one of none, redis, valkey, badger, got %q", c.Cache.Driver)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must not be negative, got %d", c.Cache.TTLSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
