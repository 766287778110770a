package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
)

type PgxEntityRepository struct {
	BaseRepository
}

func newPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntityRepositoryFacade = (*PgxEntityRepository)(nil)

func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	query := `
		INSERT INTO entities (entity_id, name, base_currency, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		entity.EntityID,
		entity.Name,
		entity.BaseCurrency,
		entity.IsActive,
		entity.CreatedAt,
		entity.CreatedBy,
		entity.LastUpdatedAt,
		entity.LastUpdatedBy,
	)
	return mapPgError(err, "save entity "+entity.EntityID)
}

func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	query := `
		SELECT entity_id, name, base_currency, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM entities
		WHERE entity_id = $1;
	`
	var m models.Entity
	err := r.Pool.QueryRow(ctx, query, entityID).Scan(
		&m.EntityID,
		&m.Name,
		&m.BaseCurrency,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find entity "+entityID)
	}
	e := toDomainEntity(m)
	return &e, nil
}
