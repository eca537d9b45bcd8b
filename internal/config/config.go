// Package config loads the YAML file that configures the classifier
// thresholds, splitter bounds, logging level, HTTP server, and optional
// Redis cache, the way codenerd/internal/config loads its YAML config
// over a DefaultConfig() baseline: Load returns defaults untouched when
// the file does not exist, and otherwise unmarshals onto the default
// values so an operator's partial file only overrides what it mentions.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClassifierConfig configures pivot.Classifier construction.
type ClassifierConfig struct {
	Domain        string  `yaml:"domain"`
	MinConfidence float64 `yaml:"min_confidence"`
	UseMorphology bool    `yaml:"use_morphology"`
}

// SplitterConfig configures splitter.Splitter construction.
type SplitterConfig struct {
	SplitBySentence    bool `yaml:"split_by_sentence"`
	SplitByConjunction bool `yaml:"split_by_conjunction"`
	MinLength          int  `yaml:"min_length"`
	MaxLength          int  `yaml:"max_length"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// HTTPConfig configures internal/httpapi's server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// RedisConfig configures the optional httpapi result cache. Addr empty
// disables the cache.
type RedisConfig struct {
	Addr string `yaml:"addr"`
	TTL  string `yaml:"ttl"`
}

// Config is the full pivotctl/httpapi configuration tree.
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Splitter   SplitterConfig   `yaml:"splitter"`
	Logging    LoggingConfig    `yaml:"logging"`
	HTTP       HTTPConfig       `yaml:"http"`
	Redis      RedisConfig      `yaml:"redis"`
}

// DefaultConfig returns the standard defaults for every section:
// no domain, 0.3 confidence floor, morphology on; both splitting passes
// on with min_length 10 / max_length 500; info-level pretty logging; an
// HTTP server on :8080; Redis caching disabled.
func DefaultConfig() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			Domain:        "",
			MinConfidence: 0.3,
			UseMorphology: true,
		},
		Splitter: SplitterConfig{
			SplitBySentence:    true,
			SplitByConjunction: true,
			MinLength:          10,
			MaxLength:          500,
		},
		Logging: LoggingConfig{Level: "info", Pretty: true},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Redis:   RedisConfig{Addr: "", TTL: "1h"},
	}
}

// Load reads a YAML config file at path, layering it over DefaultConfig.
// A missing file is not an error: Load returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: creating directory for %s: %w", path, err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
