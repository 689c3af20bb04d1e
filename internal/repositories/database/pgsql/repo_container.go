package pgsql

import (
	"database/sql"

	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	rateRepo := NewPgRateRepository(db)

	return portsrepo.RepositoryProvider{
		RateRepo:     rateRepo,
		SettingsRepo: NewPgSettingsRepository(db),
		Health:       rateRepo,
	}
}
