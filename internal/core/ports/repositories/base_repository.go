package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// LedgerTx exposes the reads and writes that must observe one consistent
// snapshot. Period reads take row locks: FOR SHARE for postings, FOR UPDATE
// for lifecycle transitions, so a period cannot close under an in-flight entry.
type LedgerTx interface {
	FindPeriodForShare(ctx context.Context, periodID string) (*domain.Period, error)
	FindOpenPeriodForShare(ctx context.Context, entityID string) (*domain.Period, error)
	FindPeriodForUpdate(ctx context.Context, periodID string) (*domain.Period, error)
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, at time.Time) error

	// FindAccountsByIDs returns the requested accounts keyed by ID; missing IDs are simply absent.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	// EnsureAccount returns the entity's account with template's code, inserting template if there is none.
	EnsureAccount(ctx context.Context, template domain.Account) (domain.Account, error)

	InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error
	FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	// ApproveJournalEntry moves a PENDING entry to APPROVED. It returns
	// apperrors.ErrAlreadyApproved when the entry is not pending anymore.
	ApproveJournalEntry(ctx context.Context, entryID, approverID string, at time.Time) error
	HasReversal(ctx context.Context, entryID string) (bool, error)
}

// UnitOfWork runs fn inside a single storage transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
