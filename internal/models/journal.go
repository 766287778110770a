package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Period is the row shape of the periods table.
type Period struct {
	PeriodID  string    `db:"period_id"`
	EntityID  string    `db:"entity_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	AuditFields
}

// JournalEntry is the row shape of the journal_entries table.
type JournalEntry struct {
	EntryID           string         `db:"entry_id"`
	EntityID          string         `db:"entity_id"`
	PeriodID          string         `db:"period_id"`
	EntryDate         time.Time      `db:"entry_date"`
	Description       string         `db:"description"`
	SourceModule      string         `db:"source_module"`
	SourceID          string         `db:"source_id"`
	Status            string         `db:"status"`
	ApprovedBy        sql.NullString `db:"approved_by"`
	ApprovedAt        sql.NullTime   `db:"approved_at"`
	ReversalOfEntryID sql.NullString `db:"reversal_of_entry_id"`
	Annotation        string         `db:"annotation"`
	AuditFields
}

// JournalLine is the row shape of the journal_lines table.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	LineNo       int             `db:"line_no"`
	Side         string          `db:"side"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	BaseAmount   decimal.Decimal `db:"base_amount"`
	Memo         string          `db:"memo"`
}
