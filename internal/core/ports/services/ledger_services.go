package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// LedgerReaderSvc defines the read projections over journal entries
type LedgerReaderSvc interface {
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	GetJournalEntriesBySource(ctx context.Context, entityID, sourceModule, sourceID string) ([]domain.JournalEntry, error)
	GetJournalEntriesByPeriod(ctx context.Context, periodID string) ([]domain.JournalEntry, error)

	// ListJournalEntries retrieves a paginated list of entries, newest first.
	ListJournalEntries(ctx context.Context, entityID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// LedgerWriterSvc defines the posting and approval workflow
type LedgerWriterSvc interface {
	// CreateJournalEntry validates and atomically persists a balanced entry.
	CreateJournalEntry(ctx context.Context, entityID string, req dto.CreateJournalEntryRequest, creatorID string) (*domain.JournalEntry, error)

	// ApproveJournalEntry moves a pending entry to approved exactly once.
	ApproveJournalEntry(ctx context.Context, entryID, approverID string) (*domain.JournalEntry, error)

	// AnnotateJournalEntry sets the soft annotation, allowed after approval.
	AnnotateJournalEntry(ctx context.Context, entryID, annotation, userID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts a mirror entry into the current open period.
	ReverseJournalEntry(ctx context.Context, entryID, userID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
