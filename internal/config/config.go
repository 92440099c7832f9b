// Package config loads the service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"` // optional JSON log file
	} `yaml:"logging"`
	Treasury struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutMs  int    `yaml:"timeout_ms"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"treasury"`
	Storage struct {
		DBPath string `yaml:"db_path"` // empty disables the request log
	} `yaml:"storage"`
	Metrics struct {
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Treasury.BaseURL == "" {
		c.Treasury.BaseURL = "https://www.treasurydirect.gov"
	}
	if c.Treasury.TimeoutMs == 0 {
		c.Treasury.TimeoutMs = 10000
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "ust_basket"
	}
}

func (c *Config) TreasuryTimeout() time.Duration {
	return time.Duration(c.Treasury.TimeoutMs) * time.Millisecond
}
