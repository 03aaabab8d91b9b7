package config

import (
	"git.home.luguber.info/inful/fitsdoc/internal/discovery"
	"git.home.luguber.info/inful/fitsdoc/internal/notify"
)

const (
	defaultOutputDirectory = "docs"
	defaultCatalogPath     = ".fitsdoc/catalog.db"
	defaultWatchDebounce   = "300ms"
)

// applyDefaults fills zero values. It runs after normalization.
func applyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = defaultOutputDirectory
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatRST
	}
	if len(cfg.Discovery.Extensions) == 0 {
		cfg.Discovery.Extensions = append([]string(nil), discovery.DefaultExtensions...)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = defaultCatalogPath
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultWatchDebounce
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = notify.DefaultSubject
	}
}
