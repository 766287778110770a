package dto

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportQueryParams are the query parameters shared by the report endpoints.
type ReportQueryParams struct {
	StartDate    string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate      string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	AsOfDate     string `form:"asOfDate" binding:"omitempty,datetime=2006-01-02"`
	ApprovedOnly bool   `form:"approvedOnly"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID,omitempty"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	EntityID  string                  `json:"entityID"`
	StartDate string                  `json:"startDate"`
	EndDate   string                  `json:"endDate"`
	Revenue   []AccountAmountResponse `json:"revenue"`
	Expenses  []AccountAmountResponse `json:"expenses"`
	Summary   struct {
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		NetIncome    decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	EntityID    string                  `json:"entityID"`
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		Difference       decimal.Decimal `json:"difference"`
		IsBalanced       bool            `json:"isBalanced"`
	} `json:"summary"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	EntityID string                    `json:"entityID"`
	AsOf     string                    `json:"asOf"`
	Rows     []TrialBalanceRowResponse `json:"rows"`
	Totals   struct {
		Debit      decimal.Decimal `json:"debit"`
		Credit     decimal.Decimal `json:"credit"`
		IsBalanced bool            `json:"isBalanced"`
	} `json:"totals"`
}

func toAccountAmountResponses(items []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(items))
	for i, item := range items {
		out[i] = AccountAmountResponse{
			AccountID: item.AccountID,
			Code:      item.Code,
			Name:      item.Name,
			Amount:    item.Amount,
		}
	}
	return out
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response
func ToIncomeStatementResponse(r *domain.IncomeStatement) IncomeStatementResponse {
	resp := IncomeStatementResponse{
		EntityID:  r.EntityID,
		StartDate: r.StartDate.Format(DateLayout),
		EndDate:   r.EndDate.Format(DateLayout),
		Revenue:   toAccountAmountResponses(r.Revenue),
		Expenses:  toAccountAmountResponses(r.Expenses),
	}
	resp.Summary.TotalRevenue = r.TotalRevenue
	resp.Summary.TotalExpense = r.TotalExpense
	resp.Summary.NetIncome = r.NetIncome
	return resp
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response
func ToBalanceSheetResponse(r *domain.BalanceSheet) BalanceSheetResponse {
	resp := BalanceSheetResponse{
		EntityID:    r.EntityID,
		AsOf:        r.AsOf.Format(DateLayout),
		Assets:      toAccountAmountResponses(r.Assets),
		Liabilities: toAccountAmountResponses(r.Liabilities),
		Equity:      toAccountAmountResponses(r.Equity),
	}
	resp.Summary.TotalAssets = r.TotalAssets
	resp.Summary.TotalLiabilities = r.TotalLiabilities
	resp.Summary.TotalEquity = r.TotalEquity
	resp.Summary.Difference = r.Difference
	resp.Summary.IsBalanced = r.IsBalanced
	return resp
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(r *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		EntityID: r.EntityID,
		AsOf:     r.AsOf.Format(DateLayout),
		Rows:     make([]TrialBalanceRowResponse, len(r.Rows)),
	}
	for i, row := range r.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	resp.Totals.Debit = r.TotalDebit
	resp.Totals.Credit = r.TotalCredit
	resp.Totals.IsBalanced = r.IsBalanced
	return resp
}
