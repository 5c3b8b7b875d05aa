package driving

import "github.com/custodia-labs/askwork/internal/core/domain"

// SettingsService reads and writes application settings.
type SettingsService interface {
	// Get returns the effective settings, with environment secrets applied.
	Get() (*domain.Settings, error)

	// Save persists settings. Blank secrets leave stored values untouched.
	Save(settings *domain.Settings) error
}
