package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error)
	// FindOpenPeriod returns ErrNotFound when the entity has no open period.
	FindOpenPeriod(ctx context.Context, entityID string) (*domain.Period, error)
	// FindLatestPeriod returns the period with the greatest end date, or ErrNotFound.
	FindLatestPeriod(ctx context.Context, entityID string) (*domain.Period, error)
	ListPeriodsByEntity(ctx context.Context, entityID string) ([]domain.Period, error)
}

// PeriodWriter defines write operations for accounting periods.
// Status changes go through LedgerTx.UpdatePeriodStatus.
type PeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.Period) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
