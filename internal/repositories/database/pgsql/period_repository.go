package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
)

const periodColumns = `period_id, entity_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*domain.Period, error) {
	var m models.Period
	err := row.Scan(
		&m.PeriodID,
		&m.EntityID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "scan period")
	}
	p := toDomainPeriod(m)
	return &p, nil
}

// SavePeriod inserts a period. A second OPEN period for the entity trips the
// partial unique index and maps to ErrDuplicate.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	query := `INSERT INTO periods (` + periodColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.EntityID,
		period.Name,
		period.StartDate,
		period.EndDate,
		string(period.Status),
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	return mapPgError(err, "save period "+period.PeriodID)
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	return scanPeriod(r.Pool.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE period_id = $1;`, periodID))
}

func (r *PgxPeriodRepository) FindOpenPeriod(ctx context.Context, entityID string) (*domain.Period, error) {
	return scanPeriod(r.Pool.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE entity_id = $1 AND status = 'OPEN';`, entityID))
}

func (r *PgxPeriodRepository) FindLatestPeriod(ctx context.Context, entityID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE entity_id = $1 ORDER BY end_date DESC LIMIT 1;`
	return scanPeriod(r.Pool.QueryRow(ctx, query, entityID))
}

func (r *PgxPeriodRepository) ListPeriodsByEntity(ctx context.Context, entityID string) ([]domain.Period, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+periodColumns+` FROM periods WHERE entity_id = $1 ORDER BY start_date;`, entityID)
	if err != nil {
		return nil, mapPgError(err, "list periods")
	}
	defer rows.Close()

	periods := []domain.Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate periods")
	}
	return periods, nil
}
