package services_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/middleware"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	logs          *bytes.Buffer
	reportingRepo *MockReportingRepository
	entityRepo    *MockEntityRepository
	service       portssvc.ReportingService
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(suite.logs, nil))
	suite.ctx = middleware.WithLogger(context.Background(), logger)
	suite.reportingRepo = new(MockReportingRepository)
	suite.entityRepo = new(MockEntityRepository)
	suite.service = services.NewReportingService(suite.reportingRepo, suite.entityRepo)
	suite.entityRepo.On("FindEntityByID", suite.ctx, "ent-1").Return(&domain.Entity{EntityID: "ent-1"}, nil)
}

func total(code string, t domain.AccountType, debit, credit int64) domain.AccountTotal {
	return domain.AccountTotal{
		AccountID:   "acc-" + code,
		Code:        code,
		Name:        "Account " + code,
		AccountType: t,
		Debit:       decimal.NewFromInt(debit),
		Credit:      decimal.NewFromInt(credit),
	}
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_SignsAndOrdering() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.reportingRepo.On("GetAccountTotals", suite.ctx, "ent-1", mock.MatchedBy(func(f domain.LineFilter) bool {
		return f.From != nil && f.From.Equal(start) && f.To.Equal(end) && len(f.Types) == 2 && !f.ApprovedOnly
	})).Return([]domain.AccountTotal{
		total("5100", domain.Expense, 300, 0),
		total("4000", domain.Revenue, 100, 1100),
		total("5000", domain.Expense, 50, 70), // net refund
	}, nil).Once()

	is, err := suite.service.IncomeStatement(suite.ctx, "ent-1", start, end, domain.ReportOptions{})

	suite.Require().NoError(err)
	suite.True(is.TotalRevenue.Equal(decimal.NewFromInt(1000)))
	suite.True(is.TotalExpense.Equal(decimal.NewFromInt(280)))
	suite.True(is.NetIncome.Equal(decimal.NewFromInt(720)))
	suite.Require().Len(is.Expenses, 2)
	suite.Equal("5000", is.Expenses[0].Code)
	suite.True(is.Expenses[0].Amount.Equal(decimal.NewFromInt(-20)))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_CurrentEarnings() {
	asOf := time.Date(2024, 1, 31, 15, 0, 0, 0, time.UTC)
	suite.reportingRepo.On("GetAccountTotals", suite.ctx, "ent-1", mock.AnythingOfType("domain.LineFilter")).Return([]domain.AccountTotal{
		total("1000", domain.Asset, 2000, 300),
		total("2000", domain.Liability, 0, 500),
		total("3000", domain.Equity, 0, 1000),
		total("4000", domain.Revenue, 0, 400),
		total("5000", domain.Expense, 200, 0),
	}, nil).Once()

	bs, err := suite.service.BalanceSheet(suite.ctx, "ent-1", asOf, domain.ReportOptions{})

	suite.Require().NoError(err)
	suite.True(bs.AsOf.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	suite.True(bs.TotalAssets.Equal(decimal.NewFromInt(1700)))
	suite.True(bs.TotalLiabilities.Equal(decimal.NewFromInt(500)))
	suite.True(bs.TotalEquity.Equal(decimal.NewFromInt(1200)))
	suite.Equal(domain.CurrentEarningsCode, bs.Equity[1].Code)
	suite.True(bs.Difference.IsZero())
	suite.True(bs.IsBalanced)
	suite.NotContains(suite.logs.String(), "integrity alert")
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_ImbalanceIsLoggedAtError() {
	suite.reportingRepo.On("GetAccountTotals", suite.ctx, "ent-1", mock.AnythingOfType("domain.LineFilter")).Return([]domain.AccountTotal{
		total("1000", domain.Asset, 1000, 0),
		total("3000", domain.Equity, 0, 900),
	}, nil).Once()

	bs, err := suite.service.BalanceSheet(suite.ctx, "ent-1", time.Now(), domain.ReportOptions{})

	suite.Require().NoError(err)
	suite.True(bs.Difference.Equal(decimal.NewFromInt(100)))
	suite.False(bs.IsBalanced)
	suite.Contains(suite.logs.String(), `"level":"ERROR"`)
	suite.Contains(suite.logs.String(), "integrity alert")
}

func (suite *ReportingServiceTestSuite) TestTrialBalance() {
	suite.reportingRepo.On("GetAccountTotals", suite.ctx, "ent-1", mock.MatchedBy(func(f domain.LineFilter) bool {
		return f.From == nil && f.ApprovedOnly
	})).Return([]domain.AccountTotal{
		total("4000", domain.Revenue, 0, 250),
		total("1000", domain.Asset, 250, 0),
	}, nil).Once()

	tb, err := suite.service.TrialBalance(suite.ctx, "ent-1", time.Now(), domain.ReportOptions{ApprovedOnly: true})

	suite.Require().NoError(err)
	suite.Equal("1000", tb.Rows[0].Code)
	suite.True(tb.TotalDebit.Equal(decimal.NewFromInt(250)))
	suite.True(tb.IsBalanced)
}
