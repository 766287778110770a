package domain

import "github.com/shopspring/decimal"

// Side indicates whether a journal line is a Debit or a Credit.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// Opposite flips the side, used when reversing an entry.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalLine is one side of one posting. Amount is always strictly positive;
// the side carries the direction.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	LineNo       int             `json:"lineNo"`
	Side         Side            `json:"side"`
	Amount       decimal.Decimal `json:"amount"`       // original currency
	CurrencyCode string          `json:"currencyCode"` // original currency
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // original -> base, snapshotted
	BaseAmount   decimal.Decimal `json:"baseAmount"`   // Amount * ExchangeRate
	Memo         string          `json:"memo"`
}

// Debit returns the base amount when the line is a debit, zero otherwise.
func (l JournalLine) Debit() decimal.Decimal {
	if l.Side == Debit {
		return l.BaseAmount
	}
	return decimal.Zero
}

// Credit returns the base amount when the line is a credit, zero otherwise.
func (l JournalLine) Credit() decimal.Decimal {
	if l.Side == Credit {
		return l.BaseAmount
	}
	return decimal.Zero
}
