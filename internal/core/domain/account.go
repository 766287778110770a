package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// RoundingAccountCode is the per-entity account that absorbs the residue of
// entries accepted within the balance tolerance.
const RoundingAccountCode = "ROUNDING"

// AllAccountTypes lists every valid account type in statement order.
var AllAccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal is true for types whose balance grows with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// IsBalanceSheet is true for the types presented on the balance sheet.
func (t AccountType) IsBalanceSheet() bool {
	return t == Asset || t == Liability || t == Equity
}

// Account represents a ledger bucket in an entity's chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	EntityID        string      `json:"entityID"`
	Code            string      `json:"code"` // unique per entity
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID"` // empty for root accounts
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}
