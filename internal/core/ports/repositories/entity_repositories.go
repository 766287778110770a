package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// EntityReader defines read operations for legal entities
type EntityReader interface {
	FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)
}

// EntityWriter defines write operations for legal entities
type EntityWriter interface {
	SaveEntity(ctx context.Context, entity domain.Entity) error
}

// EntityRepositoryFacade combines all entity-related repository interfaces
type EntityRepositoryFacade interface {
	EntityReader
	EntityWriter
}
