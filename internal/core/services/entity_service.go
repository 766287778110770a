package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

type entityService struct {
	BaseService
	entityRepo portsrepo.EntityRepositoryFacade
}

// NewEntityService creates the legal-entity registry service.
func NewEntityService(entityRepo portsrepo.EntityRepositoryFacade, options ...ServiceOption) portssvc.EntitySvcFacade {
	return &entityService{
		BaseService: newBaseService(options...),
		entityRepo:  entityRepo,
	}
}

var _ portssvc.EntitySvcFacade = (*entityService)(nil)

func (s *entityService) CreateEntity(ctx context.Context, req dto.CreateEntityRequest, userID string) (*domain.Entity, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: entity name is required", apperrors.ErrValidation)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.BaseCurrency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: base currency must be a 3-letter ISO code", apperrors.ErrValidation)
	}

	entity := domain.Entity{
		EntityID:     uuid.NewString(),
		Name:         name,
		BaseCurrency: currency,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.entityRepo.SaveEntity(ctx, entity); err != nil {
		s.LogError(ctx, err, "Failed to save entity", slog.String("entity_name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Entity created", slog.String("entity_id", entity.EntityID), slog.String("base_currency", currency))
	return &entity, nil
}

func (s *entityService) GetEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return entity, nil
}
