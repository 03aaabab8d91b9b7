// Package config loads fitsdoc.yaml.
//
// Loading happens in four steps: .env files are read into the environment,
// ${VAR} references in the YAML are expanded, the document is decoded, and
// the result is normalized, defaulted and validated.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "fitsdoc.yaml"

// Config is the root of fitsdoc.yaml.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Logging   LoggingConfig   `yaml:"logging"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Watch     WatchConfig     `yaml:"watch"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// DiscoveryConfig controls which files are documented.
type DiscoveryConfig struct {
	Extensions    []string `yaml:"extensions"`
	IncludeHidden bool     `yaml:"include_hidden"`
}

// CatalogConfig locates the run catalog database.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig controls metric export. Both targets are optional.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile written after each run
	Listen   string `yaml:"listen"`   // address serving /metrics while watching
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
	Rescan   string `yaml:"rescan"` // full regeneration interval, empty disables it
}

// NotifyConfig enables NATS events for documented files.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load reads the configuration at path. An empty path loads DefaultPath when
// it exists and falls back to defaults otherwise.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case stderrors.Is(err, os.ErrNotExist) && !explicit:
		return finish(&Config{})
	case stderrors.Is(err, os.ErrNotExist):
		return nil, errors.WrapError(err, errors.CategoryNotFound, "configuration file not found").
			UserAction().
			WithContext("path", path).
			Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML after expanding environment references and returns the
// defaulted, validated configuration.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").Build()
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Init writes an example configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}

	example := Default()
	var buf bytes.Buffer
	buf.WriteString("# fitsdoc configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(example); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode example configuration").Build()
	}
	if err := enc.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode example configuration").Build()
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}
