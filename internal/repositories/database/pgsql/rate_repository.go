package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_rate_app/internal/models"
	"github.com/SscSPs/currency_rate_app/internal/utils/mapping"
)

const rateColumns = `id, currency_code, currency_name, table_type, rate_mid, rate_bid, rate_ask,
	effective_date, table_number, created_at, updated_at`

const defaultPageSize = 10

// sortColumns maps allow-listed sort fields to columns.
var sortColumns = map[string]string{
	"effectiveDate": "effective_date",
	"currencyCode":  "currency_code",
	"rateMid":       "rate_mid",
	"rateBid":       "rate_bid",
	"rateAsk":       "rate_ask",
	"tableType":     "table_type",
}

// PgRateRepository implements portsrepo.RateRepositoryFacade over database/sql.
type PgRateRepository struct {
	BaseRepository
}

var _ portsrepo.RateRepositoryFacade = (*PgRateRepository)(nil)

// NewPgRateRepository creates a new PgRateRepository.
func NewPgRateRepository(db *sql.DB) *PgRateRepository {
	return &PgRateRepository{BaseRepository: newBaseRepository(db)}
}

// WithClock replaces the timestamp source; used by tests.
func (r *PgRateRepository) WithClock(now func() time.Time) *PgRateRepository {
	r.now = now
	return r
}

// Upsert inserts the record or, when its natural key exists, updates the
// mutable columns and updated_at. created_at is preserved on update.
func (r *PgRateRepository) Upsert(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	if !record.TableType.Valid() {
		return nil, fmt.Errorf("%w: invalid table type %q", apperrors.ErrValidation, record.TableType)
	}

	m := mapping.ToModelCurrencyRate(record)
	now := r.timestamp()

	query := `
		INSERT INTO currency_rates (
			currency_code, currency_name, table_type, rate_mid, rate_bid, rate_ask,
			effective_date, table_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (currency_code, table_type, effective_date) DO UPDATE SET
			currency_name = EXCLUDED.currency_name,
			rate_mid = EXCLUDED.rate_mid,
			rate_bid = EXCLUDED.rate_bid,
			rate_ask = EXCLUDED.rate_ask,
			table_number = EXCLUDED.table_number,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(ctx, query,
		m.CurrencyCode, m.CurrencyName, m.TableType, m.RateMid, m.RateBid, m.RateAsk,
		m.EffectiveDate, m.TableNumber, now,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, wrapError(err, "upsert currency rate")
	}

	saved := mapping.ToDomainRateRecord(m)
	return &saved, nil
}

// FindLatest returns the most recent record for the pair.
func (r *PgRateRepository) FindLatest(ctx context.Context, currencyCode string, tableType domain.TableType) (*domain.RateRecord, error) {
	query := `SELECT ` + rateColumns + `
		FROM currency_rates
		WHERE currency_code = $1 AND table_type = $2
		ORDER BY effective_date DESC
		LIMIT 1`

	rec, err := r.scanOne(r.DB.QueryRowContext(ctx, query, strings.ToUpper(currencyCode), string(tableType)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no rate for %s in table %s", apperrors.ErrNotFound, currencyCode, tableType)
	}
	if err != nil {
		return nil, wrapError(err, "find latest currency rate")
	}
	return rec, nil
}

// FindByKey returns the record with the given natural key.
func (r *PgRateRepository) FindByKey(ctx context.Context, key domain.RateKey) (*domain.RateRecord, error) {
	query := `SELECT ` + rateColumns + `
		FROM currency_rates
		WHERE currency_code = $1 AND table_type = $2 AND effective_date = $3`

	rec, err := r.scanOne(r.DB.QueryRowContext(ctx, query,
		strings.ToUpper(key.CurrencyCode), string(key.TableType), mapping.DateOnly(key.EffectiveDate)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no rate for %s/%s on %s", apperrors.ErrNotFound,
			key.CurrencyCode, key.TableType, key.EffectiveDate.Format("2006-01-02"))
	}
	if err != nil {
		return nil, wrapError(err, "find currency rate")
	}
	return rec, nil
}

// Query returns one sorted page of matching records.
func (r *PgRateRepository) Query(ctx context.Context, q domain.RateQuery) ([]domain.RateRecord, error) {
	where, args := buildRateFilter(q.Filter)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	page := max(q.Page, 1)
	if page-1 > math.MaxInt/pageSize {
		return []domain.RateRecord{}, nil
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s FROM currency_rates%s ORDER BY %s LIMIT $%d OFFSET $%d",
		rateColumns, where, SortClause(q.SortField, q.Direction), len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "query currency rates")
	}
	defer rows.Close()

	records := []domain.RateRecord{}
	for rows.Next() {
		rec, err := r.scanOne(rows)
		if err != nil {
			return nil, wrapError(err, "scan currency rate")
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate currency rates")
	}
	return records, nil
}

// Count returns the number of matching records, ignoring paging.
func (r *PgRateRepository) Count(ctx context.Context, filter domain.RateFilter) (int, error) {
	where, args := buildRateFilter(filter)

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM currency_rates"+where, args...).Scan(&total); err != nil {
		return 0, wrapError(err, "count currency rates")
	}
	return total, nil
}

// DeleteOlderThan removes records with effective_date < date.
func (r *PgRateRepository) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM currency_rates WHERE effective_date < $1`, mapping.DateOnly(date))
	if err != nil {
		return 0, wrapError(err, "delete old currency rates")
	}
	return res.RowsAffected()
}

// DeleteByTableType removes every record of the table type.
func (r *PgRateRepository) DeleteByTableType(ctx context.Context, tableType domain.TableType) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM currency_rates WHERE table_type = $1`, string(tableType))
	if err != nil {
		return 0, wrapError(err, "delete currency rates by table type")
	}
	return res.RowsAffected()
}

// DistinctCurrencies lists each stored currency once, with its most recent name.
func (r *PgRateRepository) DistinctCurrencies(ctx context.Context, tableType *domain.TableType) ([]domain.CurrencyInfo, error) {
	query := `SELECT DISTINCT ON (currency_code) currency_code, currency_name FROM currency_rates`
	args := []interface{}{}
	if tableType != nil {
		query += ` WHERE table_type = $1`
		args = append(args, string(*tableType))
	}
	query += ` ORDER BY currency_code ASC, effective_date DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "list distinct currencies")
	}
	defer rows.Close()

	currencies := []domain.CurrencyInfo{}
	for rows.Next() {
		var c domain.CurrencyInfo
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, wrapError(err, "scan currency")
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate currencies")
	}
	return currencies, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PgRateRepository) scanOne(row rowScanner) (*domain.RateRecord, error) {
	var m models.CurrencyRate
	err := row.Scan(
		&m.ID, &m.CurrencyCode, &m.CurrencyName, &m.TableType,
		&m.RateMid, &m.RateBid, &m.RateAsk,
		&m.EffectiveDate, &m.TableNumber, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec := mapping.ToDomainRateRecord(m)
	return &rec, nil
}

// buildRateFilter returns a WHERE clause with positional parameters.
func buildRateFilter(f domain.RateFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if f.CurrencyCode != "" {
		where += fmt.Sprintf(" AND currency_code = $%d", argNum)
		args = append(args, strings.ToUpper(f.CurrencyCode))
		argNum++
	}
	if f.TableType != "" {
		where += fmt.Sprintf(" AND table_type = $%d", argNum)
		args = append(args, string(f.TableType))
		argNum++
	}
	if f.DateFrom != nil {
		where += fmt.Sprintf(" AND effective_date >= $%d", argNum)
		args = append(args, mapping.DateOnly(*f.DateFrom))
		argNum++
	}
	if f.DateTo != nil {
		where += fmt.Sprintf(" AND effective_date <= $%d", argNum)
		args = append(args, mapping.DateOnly(*f.DateTo))
		argNum++
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		where += fmt.Sprintf(" AND (currency_code ILIKE $%d OR currency_name ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+escapeLike(search)+"%")
	}
	return where, args
}

// SortClause resolves a requested sort against the allow-list. Unknown fields
// fall back to effective_date; anything but ascending sorts descending.
func SortClause(field string, direction domain.SortDirection) string {
	column := sortColumns[domain.NormalizeSortField(field)]
	dir := domain.NormalizeDirection(string(direction))
	return fmt.Sprintf("%s %s, currency_code ASC, id ASC", column, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
