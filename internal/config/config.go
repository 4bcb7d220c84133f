// Package config provides configuration loading, defaults, and hot reload
// for the catsearch server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool                      `yaml:"debug"`
	Server    ServerConfig              `yaml:"server"`
	Search    SearchConfig              `yaml:"search"`
	Upstreams map[string]UpstreamConfig `yaml:"upstreams"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SearchConfig holds engine-level search settings.
type SearchConfig struct {
	DefaultLimit           int `yaml:"default_limit"`
	MaxLimit               int `yaml:"max_limit"`
	StrategyTimeoutSeconds int `yaml:"strategy_timeout_seconds"`
}

// UpstreamConfig holds one upstream catalog's connection settings. APIToken
// may also come from the environment variable named by APITokenEnv.
type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIToken       string `yaml:"api_token"`
	APITokenEnv    string `yaml:"api_token_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Token resolves the API token, preferring the inline value over the
// environment variable.
func (u UpstreamConfig) Token() string {
	if u.APIToken != "" {
		return u.APIToken
	}
	if u.APITokenEnv != "" {
		return os.Getenv(u.APITokenEnv)
	}
	return ""
}

// Load reads and parses the config file at path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}
