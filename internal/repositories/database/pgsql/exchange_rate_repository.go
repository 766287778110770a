package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
)

// PgxExchangeRateRepository stores dated currency conversion rates.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate upserts on (from, to, date_effective); the original ID and creator are kept.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (from_currency_code, to_currency_code, date_effective)
		DO UPDATE SET rate = EXCLUDED.rate,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		rate.ExchangeRateID,
		rate.FromCurrencyCode,
		rate.ToCurrencyCode,
		rate.Rate,
		rate.DateEffective,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	return mapPgError(err, "save exchange rate")
}

// FindExchangeRate tries the direct pair first and falls back to inverting the opposite pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	direct, err := r.findRate(ctx, fromCurrencyCode, toCurrencyCode, asOf)
	if err == nil {
		return direct, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	inverse, err := r.findRate(ctx, toCurrencyCode, fromCurrencyCode, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no exchange rate from %s to %s on or before %s", apperrors.ErrNotFound,
				fromCurrencyCode, toCurrencyCode, asOf.Format(time.DateOnly))
		}
		return nil, err
	}
	rate := inverse.Inverse()
	return &rate, nil
}

func (r *PgxExchangeRateRepository) findRate(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT
			exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= $3
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	var m models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, fromCurrency, toCurrency, asOf).Scan(
		&m.ExchangeRateID, &m.FromCurrencyCode, &m.ToCurrencyCode,
		&m.Rate, &m.DateEffective, &m.CreatedAt,
		&m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find exchange rate")
	}
	rate := toDomainExchangeRate(m)
	return &rate, nil
}
