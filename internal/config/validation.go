package config

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/fitsdoc/internal/discovery"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
)

// normalize case-folds enumerations. Empty values stay empty for applyDefaults.
func normalize(cfg *Config) error {
	if cfg.Output.Format != "" {
		f, err := NormalizeOutputFormat(string(cfg.Output.Format))
		if err != nil {
			return errors.ConfigError("invalid output.format").WithCause(err).Build()
		}
		cfg.Output.Format = f
	}
	if cfg.Logging.Level != "" {
		l, err := logLevelNormalizer.Validate(string(cfg.Logging.Level))
		if err != nil {
			return errors.ConfigError("invalid logging.level").WithCause(err).Build()
		}
		cfg.Logging.Level = l
	}
	if cfg.Logging.Format != "" {
		f, err := logFormatNormalizer.Validate(string(cfg.Logging.Format))
		if err != nil {
			return errors.ConfigError("invalid logging.format").WithCause(err).Build()
		}
		cfg.Logging.Format = f
	}
	cfg.Output.Directory = strings.TrimSpace(cfg.Output.Directory)
	for i, ext := range cfg.Discovery.Extensions {
		cfg.Discovery.Extensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}
	return nil
}

func validate(cfg *Config) error {
	for _, ext := range cfg.Discovery.Extensions {
		if ext == "" || ext == "." {
			return errors.ConfigError("discovery.extensions contains an empty extension").Build()
		}
	}
	if cfg.Output.Directory == cfg.Catalog.Path {
		return errors.ConfigError("catalog.path must not equal output.directory").
			WithContext("path", cfg.Catalog.Path).
			Build()
	}
	if _, err := cfg.WatchDebounce(); err != nil {
		return errors.ConfigError("invalid watch.debounce").
			WithCause(err).
			WithContext("value", cfg.Watch.Debounce).
			Build()
	}
	if _, err := cfg.WatchRescan(); err != nil {
		return errors.ConfigError("invalid watch.rescan").
			WithCause(err).
			WithContext("value", cfg.Watch.Rescan).
			Build()
	}
	return nil
}

// WatchRescan parses watch.rescan; zero means periodic rescans are off.
func (c *Config) WatchRescan() (time.Duration, error) {
	if c.Watch.Rescan == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Watch.Rescan)
	if err != nil {
		return 0, err
	}
	if d < time.Second {
		return 0, errors.ValidationError("rescan interval must be at least 1s").Build()
	}
	return d, nil
}

// WatchDebounce parses watch.debounce.
func (c *Config) WatchDebounce() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.ValidationError("debounce must be positive").Build()
	}
	return d, nil
}

// DiscoveryOptions converts the discovery section.
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{
		Extensions:    c.Discovery.Extensions,
		IncludeHidden: c.Discovery.IncludeHidden,
	}
}
