package repositories

import "context"

// SettingsRepository persists runtime overrides as key/value pairs.
type SettingsRepository interface {
	// GetAll returns every stored override.
	GetAll(ctx context.Context) (map[string]string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
