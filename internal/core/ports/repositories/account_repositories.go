package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its entity-scoped code.
	FindAccountByCode(ctx context.Context, entityID, code string) (*domain.Account, error)

	// FindAccountsByEntity lists an entity's accounts ordered by code.
	// An empty types slice means every type.
	FindAccountsByEntity(ctx context.Context, entityID string, types []domain.AccountType) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	// UpdateAccount writes the name and description and returns the stored account.
	// A non-nil retype also changes the type, but only while no journal line references
	// the account; otherwise it returns ErrAccountTypeLocked. The check and the write are
	// atomic with respect to postings.
	UpdateAccount(ctx context.Context, account domain.Account, retype *domain.AccountType) (*domain.Account, error)
	// DeactivateAccount flips is_active off. It returns ErrNotFound when no active account matched.
	DeactivateAccount(ctx context.Context, accountID, userID string, at time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
