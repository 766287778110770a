package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// EntityReaderSvc defines read operations for legal entities
type EntityReaderSvc interface {
	GetEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)
}

// EntityWriterSvc defines write operations for legal entities
type EntityWriterSvc interface {
	CreateEntity(ctx context.Context, req dto.CreateEntityRequest, userID string) (*domain.Entity, error)
}

// EntitySvcFacade combines all entity-related service interfaces
type EntitySvcFacade interface {
	EntityReaderSvc
	EntityWriterSvc
}
