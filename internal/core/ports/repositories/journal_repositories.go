package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// JournalReader defines read operations for journal entries. Every returned
// entry carries its lines ordered by line number.
type JournalReader interface {
	// FindJournalEntryByID retrieves a specific entry by its unique identifier.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntriesBySource returns entries traced to a source object, ordered by date.
	ListJournalEntriesBySource(ctx context.Context, entityID, sourceModule, sourceID string) ([]domain.JournalEntry, error)

	// ListJournalEntriesByPeriod returns a period's entries ordered by date.
	ListJournalEntriesByPeriod(ctx context.Context, periodID string) ([]domain.JournalEntry, error)

	// ListJournalEntriesByEntity retrieves a page of entries, newest first, using token-based pagination.
	// The returned token is nil on the last page.
	ListJournalEntriesByEntity(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines the writes allowed outside the posting unit of work.
type JournalWriter interface {
	// UpdateJournalAnnotation sets the soft annotation, the only mutable field of an entry.
	UpdateJournalAnnotation(ctx context.Context, entryID, annotation, userID string, at time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
