// Package config provides YAML configuration parsing for the harvest CLI.
//
// Configuration lives in ~/.harvest/config.yaml by default and is merged
// with environment variables, which take precedence:
//
//	api_token: hd_0123456789abcdef
//	unlocker_zone: sdk_unlocker
//	serp_zone: sdk_serp
//	poll_interval: 10s
//	poll_timeout: 10m
//	request_timeout: 30s
//	concurrency: 10
//	db: ~/.harvest/jobs.db
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fwojciec/harvest"
	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by FromEnv.
const (
	EnvConfig       = "HARVEST_CONFIG"
	EnvAPIToken     = "HARVEST_API_TOKEN"
	EnvUnlockerZone = "HARVEST_UNLOCKER_ZONE"
	EnvSerpZone     = "HARVEST_SERP_ZONE"
	EnvBrowserUser  = "HARVEST_BROWSER_USER"
	EnvBrowserPass  = "HARVEST_BROWSER_PASS"
	EnvDB           = "HARVEST_DB"
	EnvConcurrency  = "HARVEST_CONCURRENCY"
)

// minTokenLength guards against pasting a truncated API token.
const minTokenLength = 10

// Config is the root configuration structure.
type Config struct {
	// APIToken authenticates against the remote API. Required.
	APIToken string `yaml:"api_token"`

	// BaseURL overrides the API endpoint. Empty uses the production
	// endpoint.
	BaseURL string `yaml:"base_url"`

	// UnlockerZone is the proxy zone for unlock requests.
	UnlockerZone string `yaml:"unlocker_zone"`

	// SerpZone is the proxy zone for SERP requests.
	SerpZone string `yaml:"serp_zone"`

	// BrowserUser and BrowserPass authenticate against the remote
	// scraping browser.
	BrowserUser string `yaml:"browser_user"`
	BrowserPass string `yaml:"browser_pass"`

	// PollInterval is the delay between job readiness probes.
	// Defaults to 10s.
	PollInterval Duration `yaml:"poll_interval"`

	// PollTimeout is the wall-clock polling budget. Defaults to 10m.
	PollTimeout Duration `yaml:"poll_timeout"`

	// RequestTimeout bounds each HTTP request. Defaults to 30s.
	RequestTimeout Duration `yaml:"request_timeout"`

	// Concurrency caps in-flight jobs in batch operations.
	// Defaults to 10.
	Concurrency int `yaml:"concurrency"`

	// DB is the path of the local job journal database.
	// Defaults to ~/.harvest/jobs.db.
	DB string `yaml:"db"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "10s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultPath returns the default config file location,
// ~/.harvest/config.yaml, honoring the HARVEST_CONFIG override.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".harvest", "config.yaml")
}

// Load reads the config file at path, applies environment overrides and
// defaults, and validates the result. A missing file is not an error;
// the configuration can come entirely from the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse parses YAML configuration data without touching the filesystem
// or the environment. Defaults are applied; validation is the caller's
// call.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv(EnvUnlockerZone); v != "" {
		c.UnlockerZone = v
	}
	if v := os.Getenv(EnvSerpZone); v != "" {
		c.SerpZone = v
	}
	if v := os.Getenv(EnvBrowserUser); v != "" {
		c.BrowserUser = v
	}
	if v := os.Getenv(EnvBrowserPass); v != "" {
		c.BrowserPass = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.DB = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = Duration(10 * time.Second)
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = Duration(10 * time.Minute)
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(30 * time.Second)
	}
	if c.Concurrency == 0 {
		c.Concurrency = 10
	}
	if c.DB == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DB = filepath.Join(home, ".harvest", "jobs.db")
		} else {
			c.DB = "jobs.db"
		}
	}
}

// Validate returns EINVALID when the configuration cannot be used.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return harvest.Errorf(harvest.EINVALID, "api token is required (set %s or api_token in the config file)", EnvAPIToken)
	}
	if len(c.APIToken) < minTokenLength {
		return harvest.Errorf(harvest.EINVALID, "api token looks truncated (%d chars)", len(c.APIToken))
	}
	if c.PollInterval <= 0 || c.PollTimeout <= 0 {
		return harvest.Errorf(harvest.EINVALID, "poll interval and timeout must be positive")
	}
	return nil
}

// PollConfig returns the harvest poll configuration described by this
// Config.
func (c *Config) PollConfig() harvest.PollConfig {
	return harvest.PollConfig{
		Interval: c.PollInterval.Duration(),
		Timeout:  c.PollTimeout.Duration(),
	}
}
