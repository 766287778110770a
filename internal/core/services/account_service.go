package services

import (
	"context"
	"errors"
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

// accountService is the account directory: a per-entity, hierarchical chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	entityRepo  portsrepo.EntityReader
}

// NewAccountService creates a new account directory service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, entityRepo portsrepo.EntityReader, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		entityRepo:  entityRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, entityID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}

	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, err
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		EntityID:    entityID,
		Code:        code,
		Name:        name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, *req.ParentAccountID)
			}
			return nil, err
		}
		if parent.EntityID != entityID {
			return nil, fmt.Errorf("%w: parent account belongs to another entity", apperrors.ErrValidation)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: parent account is inactive", apperrors.ErrValidation)
		}
		account.ParentAccountID = parent.AccountID
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, err, "Account code already in use", slog.String("entity_id", entityID), slog.String("code", code))
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("entity_id", entityID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("entity_id", entityID),
		slog.String("account_id", account.AccountID),
		slog.String("code", code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, entityID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *accountService) FindAccountByCode(ctx context.Context, entityID, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, entityID, strings.TrimSpace(code))
}

func (s *accountService) FindAccountsByEntity(ctx context.Context, entityID string, types ...domain.AccountType) ([]domain.Account, error) {
	for _, t := range types {
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: invalid account type filter %q", apperrors.ErrValidation, t)
		}
	}
	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountsByEntity(ctx, entityID, types)
}

func (s *accountService) UpdateAccount(ctx context.Context, entityID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, entityID, accountID)
	if err != nil {
		return nil, err
	}

	var retype *domain.AccountType
	if req.AccountType != nil && *req.AccountType != account.AccountType {
		if !req.AccountType.IsValid() {
			return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		retype = req.AccountType
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID

	updated, err := s.accountRepo.UpdateAccount(ctx, *account, retype)
	if errors.Is(err, apperrors.ErrAccountTypeLocked) {
		s.LogWarn(ctx, err, "Rejected account type change",
			slog.String("account_id", accountID),
			slog.String("from", string(account.AccountType)),
			slog.String("to", string(*retype)))
		return nil, err
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return updated, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, entityID, accountID, userID string) error {
	if _, err := s.GetAccountByID(ctx, entityID, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.Now()); err != nil {
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
