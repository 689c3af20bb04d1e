package pgsql

import (
	"context"
	"database/sql"

	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
)

// PgSettingsRepository stores runtime overrides in module_settings.
type PgSettingsRepository struct {
	BaseRepository
}

var _ portsrepo.SettingsRepository = (*PgSettingsRepository)(nil)

// NewPgSettingsRepository creates a new PgSettingsRepository.
func NewPgSettingsRepository(db *sql.DB) *PgSettingsRepository {
	return &PgSettingsRepository{BaseRepository: newBaseRepository(db)}
}

func (r *PgSettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT key, value FROM module_settings`)
	if err != nil {
		return nil, wrapError(err, "load settings")
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, wrapError(err, "scan setting")
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate settings")
	}
	return values, nil
}

func (r *PgSettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO module_settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, r.timestamp(),
	)
	if err != nil {
		return wrapError(err, "save setting "+key)
	}
	return nil
}
