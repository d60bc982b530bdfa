package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds the stationview API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Schema   SchemaConfig   `yaml:"schema"`
	Query    QueryConfig    `yaml:"query"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// UpstreamConfig describes the remote dataset endpoint.
type UpstreamConfig struct {
	URL          string  `yaml:"url"`
	TimeoutSec   int     `yaml:"timeout_sec"`
	RateLimitRPS float64 `yaml:"rate_limit_rps"` // 0 = unlimited
	UserAgent    string  `yaml:"user_agent"`
}

// Timeout returns the upstream request timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSec) * time.Second
}

// SchemaConfig holds OPTION classification thresholds.
type SchemaConfig struct {
	OptionAbsoluteThreshold int     `yaml:"option_absolute_threshold"`
	OptionRelativeThreshold float64 `yaml:"option_relative_threshold"`
}

// QueryConfig holds query engine settings.
type QueryConfig struct {
	DefaultPageSize int    `yaml:"default_page_size"`
	Locale          string `yaml:"locale"` // BCP 47 tag used for string ordering
}

// LocaleTag parses Locale. An empty locale is the root collation.
func (q QueryConfig) LocaleTag() (language.Tag, error) {
	if q.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(q.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", q.Locale, err)
	}
	return tag, nil
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 35
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 30
	}
	if c.Upstream.UserAgent == "" {
		c.Upstream.UserAgent = "stationview"
	}
	if c.Schema.OptionAbsoluteThreshold <= 0 {
		c.Schema.OptionAbsoluteThreshold = 10
	}
	if c.Schema.OptionRelativeThreshold <= 0 {
		c.Schema.OptionRelativeThreshold = 0.2
	}
	if c.Query.DefaultPageSize <= 0 {
		c.Query.DefaultPageSize = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Upstream.URL == "" {
		return errors.New("upstream.url is required")
	}
	if !strings.HasPrefix(c.Upstream.URL, "http://") && !strings.HasPrefix(c.Upstream.URL, "https://") {
		return fmt.Errorf("upstream.url must be an http(s) URL, got %q", c.Upstream.URL)
	}
	if c.Upstream.RateLimitRPS < 0 {
		return fmt.Errorf("upstream.rate_limit_rps must not be negative, got %v", c.Upstream.RateLimitRPS)
	}
	if c.Schema.OptionRelativeThreshold > 1 {
		return fmt.Errorf(
			"schema.option_relative_threshold must be in (0, 1], got %v",
			c.Schema.OptionRelativeThreshold,
		)
	}
	if _, err := c.Query.LocaleTag(); err != nil {
		return fmt.Errorf("query.locale: %w", err)
	}
	return nil
}

// findConfigPath locates config/<env>.yaml in the working directory or the project root.
func findConfigPath(env string) string {
	filename := env + ".yaml"

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
