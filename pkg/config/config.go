/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads client settings.
//
// Settings are layered: defaults, then a YAML file, then environment
// variables. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
)

// Environment variables. The GBPCTL_ names win over the OS_ ones.
const (
	EnvConfig   = "GBPCTL_CONFIG"
	EnvURL      = "GBPCTL_URL"
	EnvToken    = "GBPCTL_TOKEN"
	EnvTenantID = "GBPCTL_TENANT_ID"

	EnvOSURL      = "OS_URL"
	EnvOSToken    = "OS_TOKEN"
	EnvOSTenantID = "OS_TENANT_ID"
)

const (
	defaultEndpoint  = "http://localhost:9696"
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 10
	defaultRateBurst = 20
)

// Config holds client configuration.
type Config struct {
	// Endpoint is the API root, e.g. http://controller:9696.
	Endpoint string `yaml:"endpoint"`
	// Token is sent as X-Auth-Token.
	Token    string `yaml:"token,omitempty"`
	TenantID string `yaml:"tenant_id,omitempty"`

	Timeout time.Duration `yaml:"timeout"`

	// RateLimit is requests per second; zero disables throttling.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	// Format is the default output format; empty picks by terminal.
	Format string `yaml:"format,omitempty"`

	VerifyIDs    bool `yaml:"verify_ids"`
	CacheLookups bool `yaml:"cache_lookups"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:  defaultEndpoint,
		Timeout:   defaultTimeout,
		RateLimit: defaultRateLimit,
		RateBurst: defaultRateBurst,
	}
}

// Load returns defaults overlaid with the config file and the environment.
// An explicit path must exist; the discovered default path is optional.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		err := cfg.loadFile(path)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/gbpctl/config.yaml, falling back to
// the user config directory, or "" when neither is known.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "gbpctl", "config.yaml")
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return gbperrors.WrapWithContext(gbperrors.ErrCodeInvalidRequest,
			"failed to parse config", err, map[string]any{"path": path})
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := firstEnv(EnvURL, EnvOSURL); v != "" {
		c.Endpoint = v
	}
	if v := firstEnv(EnvToken, EnvOSToken); v != "" {
		c.Token = v
	}
	if v := firstEnv(EnvTenantID, EnvOSTenantID); v != "" {
		c.TenantID = v
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return gbperrors.Invalid("endpoint",
			fmt.Sprintf("endpoint must be an absolute http(s) URL, got %q", c.Endpoint))
	}
	if c.Timeout <= 0 {
		return gbperrors.Invalid("timeout", fmt.Sprintf("timeout must be positive, got %s", c.Timeout))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return gbperrors.Invalid("rate_limit", "rate limit and burst must not be negative")
	}
	return nil
}
