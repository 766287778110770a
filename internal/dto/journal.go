package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one posting line as sent by upstream producers.
// Exactly one of Debit or Credit must be positive.
type CreateJournalLineRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	Debit        decimal.Decimal  `json:"debit" binding:"decimal_gte0"`
	Credit       decimal.Decimal  `json:"credit" binding:"decimal_gte0"`
	CurrencyCode string           `json:"currencyCode" binding:"omitempty,iso4217"`     // defaults to the entity base currency
	ExchangeRate *decimal.Decimal `json:"exchangeRate" binding:"omitempty,decimal_gt0"` // defaults to 1
	BaseAmount   *decimal.Decimal `json:"baseAmount" binding:"omitempty,decimal_gt0"`   // optional; checked against amount * rate
	Memo         string           `json:"memo" binding:"max=500"`
}

// CreateJournalEntryRequest defines the data needed to post a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate    string                     `json:"entryDate" binding:"required,datetime=2006-01-02"`
	Description  string                     `json:"description" binding:"max=1000"`
	SourceModule string                     `json:"sourceModule" binding:"max=50"`
	SourceID     string                     `json:"sourceID" binding:"max=100"`
	PeriodID     *string                    `json:"periodID"` // resolved to the current open period when omitted
	Lines        []CreateJournalLineRequest `json:"lines" binding:"dive"`
}

// AnnotateJournalEntryRequest carries the soft annotation text.
type AnnotateJournalEntryRequest struct {
	Annotation string `json:"annotation" binding:"max=2000"`
}

// ListJournalEntriesParams defines the query parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken    string `form:"nextToken"`
	SourceModule string `form:"sourceModule"`
	SourceID     string `form:"sourceId"`
}

// JournalLineResponse defines the data returned for a line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	LineNo       int             `json:"lineNo"`
	Side         domain.Side     `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	BaseAmount   decimal.Decimal `json:"baseAmount"`
	Memo         string          `json:"memo,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	EntityID          string                `json:"entityID"`
	PeriodID          string                `json:"periodID"`
	EntryDate         string                `json:"entryDate"`
	Description       string                `json:"description"`
	SourceModule      string                `json:"sourceModule,omitempty"`
	SourceID          string                `json:"sourceID,omitempty"`
	Status            domain.EntryStatus    `json:"status"`
	ApprovedBy        *string               `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time            `json:"approvedAt,omitempty"`
	ReversalOfEntryID *string               `json:"reversalOfEntryID,omitempty"`
	Annotation        string                `json:"annotation,omitempty"`
	TotalDebit        decimal.Decimal       `json:"totalDebit"`
	TotalCredit       decimal.Decimal       `json:"totalCredit"`
	Lines             []JournalLineResponse `json:"lines"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to its DTO.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	resp := JournalLineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		LineNo:       l.LineNo,
		Side:         l.Side,
		Amount:       l.Amount,
		Debit:        decimal.Zero,
		Credit:       decimal.Zero,
		CurrencyCode: l.CurrencyCode,
		ExchangeRate: l.ExchangeRate,
		BaseAmount:   l.BaseAmount,
		Memo:         l.Memo,
	}
	if l.Side == domain.Debit {
		resp.Debit = l.Amount
	} else {
		resp.Credit = l.Amount
	}
	return resp
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	debit, credit := e.Totals()
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = ToJournalLineResponse(l)
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		EntityID:          e.EntityID,
		PeriodID:          e.PeriodID,
		EntryDate:         e.EntryDate.Format(DateLayout),
		Description:       e.Description,
		SourceModule:      e.SourceModule,
		SourceID:          e.SourceID,
		Status:            e.Status,
		ApprovedBy:        e.ApprovedBy,
		ApprovedAt:        e.ApprovedAt,
		ReversalOfEntryID: e.ReversalOfEntryID,
		Annotation:        e.Annotation,
		TotalDebit:        debit,
		TotalCredit:       credit,
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return responses
}
