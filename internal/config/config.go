// Package config handles YAML configuration loading with environment variable
// expansion and overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// Cache backends.
const (
	BackendMemory  = "memory"
	BackendBounded = "bounded"
	BackendRedis   = "redis"
)

// Environment overrides, applied after the file is parsed.
const (
	EnvBaseURL     = "LOL_API_BASE_URL"
	EnvAPIKey      = "LOL_API_KEY"
	EnvTimeoutMs   = "HTTP_TIMEOUT"
	EnvLogPath     = "LOL_MCP_LOG"
	EnvMetricsAddr = "LOL_MCP_METRICS_ADDR"
	EnvOTLPAddr    = "LOL_MCP_OTLP_ENDPOINT"
)

// Config is the top-level server configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// APIConfig holds upstream esports API settings.
type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	Parallelism int           `yaml:"parallelism"` // 0 = unlimited
	// DNSRefresh is how often cached upstream DNS entries are re-resolved.
	// Zero disables the DNS cache.
	DNSRefresh  time.Duration `yaml:"dns_refresh"`
}

// CacheConfig selects and sizes the response cache.
type CacheConfig struct {
	Backend        string      `yaml:"backend"`
	MaxSize        int         `yaml:"max_size"`
	CoalesceMisses bool        `yaml:"coalesce_misses"`
	Redis          RedisConfig `yaml:"redis"`
}

// RedisConfig is used when Backend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"` // required; Clear only removes keys under it
}

// LogConfig controls the file logger. An empty Path means the logger's default.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// MetricsConfig controls the side HTTP listener. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// TracingConfig controls OTLP span export. Empty Endpoint disables it.
type TracingConfig struct {
	Endpoint   string  `yaml:"endpoint"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://esports-api.lolesports.com",
			Timeout:    10 * time.Second,
			DNSRefresh: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Backend:        BackendMemory,
			MaxSize:        1000,
			CoalesceMisses: true,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "lolmcp",
			},
		},
		Log:     LogConfig{Level: "info"},
		Tracing: TracingConfig{SampleRate: 1},
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv replaces ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		if val, ok := os.LookupEnv(string(match[2 : len(match)-1])); ok {
			return []byte(val)
		}
		return match
	})
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment overrides. A .env file in the working
// directory is loaded first without overriding variables already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(expandEnv(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.API.APIKey = v
	}
	if v := os.Getenv(EnvTimeoutMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeoutMs, err)
		}
		c.API.Timeout = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv(EnvLogPath); v != "" {
		c.Log.Path = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv(EnvOTLPAddr); v != "" {
		c.Tracing.Endpoint = v
	}
	return nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required (or set %s)", EnvBaseURL))
	}
	if c.API.APIKey == "" {
		errs = append(errs, fmt.Errorf("api.api_key is required (or set %s)", EnvAPIKey))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.API.Parallelism < 0 {
		errs = append(errs, errors.New("api.parallelism must not be negative"))
	}
	if c.API.DNSRefresh < 0 {
		errs = append(errs, errors.New("api.dns_refresh must not be negative"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("tracing.sample_rate must be within [0, 1]"))
	}
	switch c.Cache.Backend {
	case BackendMemory, BackendBounded:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for the redis backend"))
		}
		if c.Cache.Redis.Prefix == "" {
			errs = append(errs, errors.New("cache.redis.prefix is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q is not one of memory, bounded, redis", c.Cache.Backend))
	}
	if c.Cache.MaxSize <= 0 {
		errs = append(errs, errors.New("cache.max_size must be positive"))
	}
	return errors.Join(errs...)
}
