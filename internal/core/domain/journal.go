package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the approval state of a journal entry.
type EntryStatus string

const (
	EntryPending  EntryStatus = "PENDING"
	EntryApproved EntryStatus = "APPROVED"
)

// JournalEntry is a balanced financial event composed of two or more lines.
// Once approved only Annotation may change.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`
	EntityID          string        `json:"entityID"`
	PeriodID          string        `json:"periodID"`
	EntryDate         time.Time     `json:"entryDate"`
	Description       string        `json:"description"`
	SourceModule      string        `json:"sourceModule"` // e.g. "sales"
	SourceID          string        `json:"sourceID"`     // e.g. "order-123"
	Status            EntryStatus   `json:"status"`
	ApprovedBy        *string       `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time    `json:"approvedAt,omitempty"`
	ReversalOfEntryID *string       `json:"reversalOfEntryID,omitempty"`
	Annotation        string        `json:"annotation"`
	Lines             []JournalLine `json:"lines"`
	AuditFields
}

// IsApproved reports whether the entry has been recognized.
func (e JournalEntry) IsApproved() bool {
	return e.Status == EntryApproved
}

// Totals returns the base-currency debit and credit sums of the entry's lines.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit())
		credit = credit.Add(l.Credit())
	}
	return debit, credit
}
