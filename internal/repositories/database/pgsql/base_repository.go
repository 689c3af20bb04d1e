package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func newBaseRepository(db *sql.DB) BaseRepository {
	return BaseRepository{DB: db, now: time.Now}
}

// Ping checks that the database is reachable.
func (r *BaseRepository) Ping(ctx context.Context) error {
	if err := r.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// timestamp returns the store's current time at database precision.
func (r *BaseRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// wrapError maps driver errors onto application sentinels.
func wrapError(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, action, pgErr.ConstraintName)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
