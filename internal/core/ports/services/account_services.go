package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// AccountReaderSvc defines the read side of the account directory
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account, scoped to the entity.
	GetAccountByID(ctx context.Context, entityID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its entity-scoped code.
	FindAccountByCode(ctx context.Context, entityID, code string) (*domain.Account, error)

	// FindAccountsByEntity lists accounts, optionally filtered by type.
	FindAccountsByEntity(ctx context.Context, entityID string, types ...domain.AccountType) ([]domain.Account, error)
}

// AccountWriterSvc defines the write side of the account directory
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, entityID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount changes name/description, and the type only while nothing has posted to the account.
	UpdateAccount(ctx context.Context, entityID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account.
	DeactivateAccount(ctx context.Context, entityID, accountID, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
