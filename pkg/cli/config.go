// Package cli provides the configuration file and output helpers of the
// streambuf command.
//
// Configuration lives in os.UserConfigDir()/streambuf/config.yaml, or in
// the file named by $STREAMBUF_CONFIG:
//
//	store:
//	  kind: s3            # local | s3 | badger | memory
//	  bucket: my-bucket
//	  prefix: streams
//	  region: us-east-1
//	  endpoint: http://localhost:9000
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// EnvConfig overrides the configuration file location.
	EnvConfig = "STREAMBUF_CONFIG"

	appDir     = "streambuf"
	configFile = "config.yaml"
)

// Store kinds.
const (
	StoreLocal  = "local"
	StoreS3     = "s3"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Config is the streambuf configuration file.
type Config struct {
	// Store selects and configures the object store used by store: targets.
	Store StoreConfig `json:"store" yaml:"store"`

	path string
}

// StoreConfig configures the object store.
type StoreConfig struct {
	// Kind is one of local, s3, badger or memory. Default is local.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Dir is the root directory for local and the data directory for
	// badger. Defaults to a directory next to the config file.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket and Prefix locate objects in S3.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region, Endpoint and the keys configure the S3 client.
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// Masked returns a copy of s with the S3 keys masked for display.
func (s StoreConfig) Masked() StoreConfig {
	s.AccessKey = MaskAPIKey(s.AccessKey)
	s.SecretKey = MaskAPIKey(s.SecretKey)
	return s
}

// DefaultPath returns the configuration file path, honoring EnvConfig.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, configFile), nil
}

// LoadConfig loads the configuration from the default path.
func LoadConfig() (*Config, error) {
	p, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(p)
}

// LoadConfigFrom loads the configuration at path. A missing file yields
// the defaults; it is not created until Save.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := &Config{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Kind == "" {
		c.Store.Kind = StoreLocal
	}
	if c.Store.Dir == "" && (c.Store.Kind == StoreLocal || c.Store.Kind == StoreBadger) {
		c.Store.Dir = filepath.Join(filepath.Dir(c.path), "objects")
	}
}

// Validate checks the store settings.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreLocal, StoreBadger, StoreMemory:
		return nil
	case StoreS3:
		if c.Store.Bucket == "" {
			return errors.New("config: store.bucket is required for kind s3")
		}
		return nil
	default:
		return fmt.Errorf("config: unknown store kind %q", c.Store.Kind)
	}
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// MaskAPIKey masks an API key for display, showing only the first and last
// 4 characters. Keys of 8 characters or less are masked completely.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
