package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// PeriodReaderSvc defines read operations for accounting periods
type PeriodReaderSvc interface {
	GetPeriod(ctx context.Context, entityID, periodID string) (*domain.Period, error)
	ListPeriods(ctx context.Context, entityID string) ([]domain.Period, error)

	// CurrentOpenPeriod returns the entity's open period or apperrors.ErrNoOpenPeriod.
	CurrentOpenPeriod(ctx context.Context, entityID string) (*domain.Period, error)

	// IsEditable is true iff the period is open.
	IsEditable(ctx context.Context, periodID string) (bool, error)
}

// PeriodWriterSvc defines the period lifecycle operations
type PeriodWriterSvc interface {
	CreatePeriod(ctx context.Context, entityID string, req dto.CreatePeriodRequest, userID string) (*domain.Period, error)

	// Transition moves a period forward: OPEN -> CLOSED -> LOCKED.
	Transition(ctx context.Context, periodID string, target domain.PeriodStatus, userID string) (*domain.Period, error)
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
