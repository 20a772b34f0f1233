package driven

import "github.com/custodia-labs/docuchat-cli/internal/core/domain"

// ConfigStore persists the tool configuration between invocations.
type ConfigStore interface {
	// Load reads the persisted configuration with defaults applied.
	// A missing config file yields the default configuration.
	Load() (domain.Config, error)

	// Save writes the configuration back to the store.
	Save(cfg domain.Config) error

	// Path identifies the backing location, for display to the user.
	Path() string
}
