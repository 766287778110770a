package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// periodService owns the lifecycle of accounting periods.
type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodRepositoryFacade
	entityRepo portsrepo.EntityReader
	uow        portsrepo.UnitOfWork
}

// NewPeriodService creates a new period manager.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, entityRepo portsrepo.EntityReader, uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.PeriodSvcFacade {
	return &periodService{
		BaseService: newBaseService(options...),
		periodRepo:  periodRepo,
		entityRepo:  entityRepo,
		uow:         uow,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) CreatePeriod(ctx context.Context, entityID string, req dto.CreatePeriodRequest, userID string) (*domain.Period, error) {
	start, err := dto.ParseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", apperrors.ErrValidation)
	}

	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, err
	}

	open, err := s.periodRepo.FindOpenPeriod(ctx, entityID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if open != nil {
		return nil, fmt.Errorf("%w: period %s is still open; close it before opening a new one", apperrors.ErrConflict, open.PeriodID)
	}

	latest, err := s.periodRepo.FindLatestPeriod(ctx, entityID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if latest != nil && !start.After(latest.EndDate) {
		return nil, fmt.Errorf("%w: new period must start after %s", apperrors.ErrValidation, latest.EndDate.Format(dto.DateLayout))
	}

	name := req.Name
	if name == "" {
		name = start.Format("2006-01")
	}
	period := domain.Period{
		PeriodID:    uuid.NewString(),
		EntityID:    entityID,
		Name:        name,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: entity already has an open period", apperrors.ErrConflict)
		}
		s.LogError(ctx, err, "Failed to save period", slog.String("entity_id", entityID))
		return nil, err
	}

	s.LogInfo(ctx, "Period opened",
		slog.String("entity_id", entityID),
		slog.String("period_id", period.PeriodID),
		slog.String("start", req.StartDate),
		slog.String("end", req.EndDate))
	return &period, nil
}

func (s *periodService) GetPeriod(ctx context.Context, entityID, periodID string) (*domain.Period, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, entityID string) ([]domain.Period, error) {
	return s.periodRepo.ListPeriodsByEntity(ctx, entityID)
}

func (s *periodService) CurrentOpenPeriod(ctx context.Context, entityID string) (*domain.Period, error) {
	period, err := s.periodRepo.FindOpenPeriod(ctx, entityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoOpenPeriod
		}
		return nil, err
	}
	return period, nil
}

func (s *periodService) IsEditable(ctx context.Context, periodID string) (bool, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return false, err
	}
	return period.IsEditable(), nil
}

// Transition locks the period row for update, so it waits for in-flight
// postings holding a share lock and no posting can slip in after the close.
func (s *periodService) Transition(ctx context.Context, periodID string, target domain.PeriodStatus, userID string) (*domain.Period, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown period status %q", apperrors.ErrValidation, target)
	}

	var result *domain.Period
	err := s.uow.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		period, err := tx.FindPeriodForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.Status.CanTransitionTo(target) {
			return &apperrors.InvalidPeriodTransitionError{From: string(period.Status), To: string(target)}
		}
		now := s.Now()
		if err := tx.UpdatePeriodStatus(ctx, periodID, target, userID, now); err != nil {
			return err
		}
		period.Status = target
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
		result = period
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidPeriodTransition) {
			s.LogWarn(ctx, err, "Rejected period transition", slog.String("period_id", periodID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Period transitioned", slog.String("period_id", periodID), slog.String("status", string(target)))
	return result, nil
}
