package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrentEarningsCode labels the synthetic equity line holding unclosed net income.
const CurrentEarningsCode = "CURRENT_EARNINGS"

// LineFilter narrows the lines aggregated for a report.
type LineFilter struct {
	From         *time.Time // inclusive; nil means from the beginning
	To           time.Time  // inclusive
	Types        []AccountType
	ApprovedOnly bool
}

// AccountTotal is the per-account aggregate returned by the reporting repository.
// Debit and Credit are base-currency sums.
type AccountTotal struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// AccountAmount represents an account with its natural-sign amount in a financial report.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement is revenue minus expense over a date range.
type IncomeStatement struct {
	EntityID     string          `json:"entityID"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	Revenue      []AccountAmount `json:"revenue"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// BalanceSheet presents assets against liabilities and equity as of a date.
type BalanceSheet struct {
	EntityID         string          `json:"entityID"`
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Difference       decimal.Decimal `json:"difference"`
	IsBalanced       bool            `json:"isBalanced"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists per-account debit and credit totals.
type TrialBalance struct {
	EntityID    string            `json:"entityID"`
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// ReportOptions tunes which lines a report recognizes.
type ReportOptions struct {
	ApprovedOnly bool
}
