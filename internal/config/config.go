// Package config loads primecode settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Neumenon/primecode/primecode"
	"github.com/Neumenon/primecode/stream"
	"gopkg.in/yaml.v3"
)

// Config holds all primecode configuration.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Build      BuildConfig      `yaml:"build"`
	Codec      CodecConfig      `yaml:"codec"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DictionaryConfig locates the persisted dictionary files.
type DictionaryConfig struct {
	ForwardPath  string `yaml:"forward_path"`
	InvertedPath string `yaml:"inverted_path"`
	// Compression applied when the paths carry no compression suffix:
	// none, zstd, lz4.
	Compression string `yaml:"compression"`
}

// BuildConfig controls dictionary construction.
type BuildConfig struct {
	Seed            uint64 `yaml:"seed"` // 0 draws a random seed
	PrimeMultiplier int    `yaml:"prime_multiplier"`
}

// CodecConfig controls encoding and decoding.
type CodecConfig struct {
	Unmapped string `yaml:"unmapped"` // drop, literals, keep
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration. The file names match
// those written by earlier tooling.
func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			ForwardPath:  "dictionary.json",
			InvertedPath: "inverted_dictionary.json",
			Compression:  "none",
		},
		Build: BuildConfig{
			PrimeMultiplier: primecode.DefaultPrimeMultiplier,
		},
		Codec: CodecConfig{
			Unmapped: "drop",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PRIMECODE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PRIMECODE_SEED: %w", err)
		}
		c.Build.Seed = seed
	}
	if v := os.Getenv("PRIMECODE_COMPRESSION"); v != "" {
		c.Dictionary.Compression = v
	}
	if v := os.Getenv("PRIMECODE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks that every enumerated setting is known.
func (c *Config) Validate() error {
	if _, err := stream.ParseCompression(c.Dictionary.Compression); err != nil {
		return fmt.Errorf("dictionary.compression: %w", err)
	}
	if _, err := primecode.ParseUnmappedPolicy(c.Codec.Unmapped); err != nil {
		return fmt.Errorf("codec.unmapped: %w", err)
	}
	if c.Build.PrimeMultiplier < 1 {
		return fmt.Errorf("build.prime_multiplier must be at least 1, got %d", c.Build.PrimeMultiplier)
	}
	if c.Dictionary.ForwardPath == "" || c.Dictionary.InvertedPath == "" {
		return fmt.Errorf("dictionary paths must not be empty")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	return nil
}

// Compression returns the configured compression.
func (c *Config) Compression() stream.Compression {
	comp, err := stream.ParseCompression(c.Dictionary.Compression)
	if err != nil {
		return stream.CompressionNone
	}
	return comp
}

// ForwardPath returns the forward dictionary path, with the compression
// suffix appended when the configured path has none.
func (c *Config) ForwardPath() string {
	return c.withSuffix(c.Dictionary.ForwardPath)
}

// InvertedPath is ForwardPath for the inverted dictionary.
func (c *Config) InvertedPath() string {
	return c.withSuffix(c.Dictionary.InvertedPath)
}

func (c *Config) withSuffix(path string) string {
	if stream.CompressionForPath(path) != stream.CompressionNone {
		return path
	}
	return path + c.Compression().Extension()
}

// UnmappedPolicy returns the configured decode policy.
func (c *Config) UnmappedPolicy() primecode.UnmappedPolicy {
	p, err := primecode.ParseUnmappedPolicy(c.Codec.Unmapped)
	if err != nil {
		return primecode.DropUnmapped
	}
	return p
}
