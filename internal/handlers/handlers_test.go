package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/handlers"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/repositories/idempotency"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
)

const testJWTSecret = "test-secret"

type HandlersTestSuite struct {
	suite.Suite
	router   *gin.Engine
	token    string
	entityID string
	accounts map[string]string // code -> account ID
	periodID string
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.token = signToken(s.T(), "user-1")
}

func (s *HandlersTestSuite) SetupTest() {
	cfg := &config.Config{
		JWTSecret:          testJWTSecret,
		RateLimit:          "1000-M",
		IdempotencyTTL:     time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	container := services.NewServiceContainer(memory.NewRepositoryProvider(memory.New()))

	router, err := handlers.NewRouter(cfg, logger, container, idempotency.NewMemoryStore())
	s.Require().NoError(err)
	s.router = router

	var entity dto.EntityResponse
	s.decode(s.do(http.MethodPost, "/api/v1/entities", dto.CreateEntityRequest{Name: "Acme", BaseCurrency: "USD"}, nil), http.StatusCreated, &entity)
	s.entityID = entity.EntityID

	var period dto.PeriodResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/periods"), dto.CreatePeriodRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"}, nil), http.StatusCreated, &period)
	s.periodID = period.PeriodID

	s.accounts = map[string]string{}
	for code, t := range map[string]domain.AccountType{"1000": domain.Asset, "3000": domain.Equity, "4000": domain.Revenue} {
		var acc dto.AccountResponse
		s.decode(s.do(http.MethodPost, s.entityPath("/accounts"), dto.CreateAccountRequest{Code: code, Name: "Account " + code, AccountType: t}, nil), http.StatusCreated, &acc)
		s.accounts[code] = acc.AccountID
	}
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func (s *HandlersTestSuite) entityPath(suffix string) string {
	return "/api/v1/entities/" + s.entityID + suffix
}

func (s *HandlersTestSuite) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, wantStatus int, out any) {
	s.Require().Equal(wantStatus, w.Code, w.Body.String())
	if out != nil {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
	}
}

func (s *HandlersTestSuite) entryRequest(debitCode, creditCode string, debit, credit string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:    "2024-01-15",
		Description:  "Invoice 42",
		SourceModule: "sales",
		SourceID:     "order-42",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.accounts[debitCode], Debit: decimal.RequireFromString(debit)},
			{AccountID: s.accounts[creditCode], Credit: decimal.RequireFromString(credit)},
		},
	}
}

func (s *HandlersTestSuite) TestHealthIsPublic() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestMissingOrBadTokenIsRejected() {
	req := httptest.NewRequest(http.MethodGet, s.entityPath(""), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, s.entityPath(""), nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestBindingErrorsAreRenderedPerField() {
	var currencyErr, codeErr, lineErr dto.ErrorResponse
	s.decode(s.do(http.MethodPost, "/api/v1/entities", dto.CreateEntityRequest{Name: "Acme", BaseCurrency: "XX"}, nil), http.StatusBadRequest, &currencyErr)
	s.Contains(currencyErr.Details, "BaseCurrency")

	s.decode(s.do(http.MethodPost, s.entityPath("/accounts"), dto.CreateAccountRequest{Code: "bad code!", Name: "x", AccountType: domain.Asset}, nil), http.StatusBadRequest, &codeErr)
	s.Contains(codeErr.Details, "Code")

	req := s.entryRequest("1000", "4000", "100", "100")
	req.Lines[0].Debit = decimal.NewFromInt(-100)
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), req, nil), http.StatusBadRequest, &lineErr)
	s.Contains(lineErr.Details, "Lines[0].Debit")
}

func (s *HandlersTestSuite) TestUnbalancedEntryCarriesTotals() {
	var resp dto.ErrorResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "100", "50"), nil), http.StatusBadRequest, &resp)
	s.Equal("100", resp.Details["debit"])
	s.Equal("50", resp.Details["credit"])
}

func (s *HandlersTestSuite) TestIdempotencyKeyReplaysFirstEntry() {
	headers := map[string]string{"Idempotency-Key": "order-42-invoice"}

	var first, second dto.JournalEntryResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "100", "100"), headers), http.StatusCreated, &first)

	w := s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "100", "100"), headers)
	s.Equal("true", w.Header().Get("Idempotent-Replayed"))
	s.decode(w, http.StatusOK, &second)
	s.Equal(first.EntryID, second.EntryID)

	var list dto.ListJournalEntriesResponse
	s.decode(s.do(http.MethodGet, s.entityPath("/journal-entries?sourceModule=sales&sourceId=order-42"), nil, nil), http.StatusOK, &list)
	s.Len(list.Entries, 1)
}

func (s *HandlersTestSuite) TestFailedCreateReleasesIdempotencyKey() {
	headers := map[string]string{"Idempotency-Key": "retry-me"}
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "100", "90"), headers), http.StatusBadRequest, nil)
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "100", "100"), headers), http.StatusCreated, nil)
}

func (s *HandlersTestSuite) TestClosedPeriodRejectsPosting() {
	var period dto.PeriodResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/periods/"+s.periodID+"/transition"), dto.TransitionPeriodRequest{Status: domain.PeriodClosed}, nil), http.StatusOK, &period)
	s.Equal(domain.PeriodClosed, period.Status)

	var editable dto.EditableResponse
	s.decode(s.do(http.MethodGet, s.entityPath("/periods/"+s.periodID+"/editable"), nil, nil), http.StatusOK, &editable)
	s.False(editable.Editable)

	req := s.entryRequest("1000", "4000", "100", "100")
	req.PeriodID = &s.periodID
	var resp dto.ErrorResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), req, nil), http.StatusConflict, &resp)
	s.Equal("CLOSED", resp.Details["periodStatus"])

	s.decode(s.do(http.MethodPost, s.entityPath("/periods/"+s.periodID+"/transition"), dto.TransitionPeriodRequest{Status: domain.PeriodOpen}, nil), http.StatusConflict, nil)
}

func (s *HandlersTestSuite) TestApproveOnceThenReverse() {
	var entry dto.JournalEntryResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "3000", "250", "250"), nil), http.StatusCreated, &entry)
	s.Equal(domain.EntryPending, entry.Status)

	var approved dto.JournalEntryResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries/"+entry.EntryID+"/approve"), nil, nil), http.StatusOK, &approved)
	s.Equal(domain.EntryApproved, approved.Status)
	s.Require().NotNil(approved.ApprovedBy)
	s.Equal("user-1", *approved.ApprovedBy)

	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries/"+entry.EntryID+"/approve"), nil, nil), http.StatusConflict, nil)

	var reversal dto.JournalEntryResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries/"+entry.EntryID+"/reverse"), nil, nil), http.StatusCreated, &reversal)
	s.Require().NotNil(reversal.ReversalOfEntryID)
	s.Equal(entry.EntryID, *reversal.ReversalOfEntryID)
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries/"+entry.EntryID+"/reverse"), nil, nil), http.StatusConflict, nil)
}

func (s *HandlersTestSuite) TestEntryOfAnotherEntityIsNotFound() {
	var entry dto.JournalEntryResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "10", "10"), nil), http.StatusCreated, &entry)

	var other dto.EntityResponse
	s.decode(s.do(http.MethodPost, "/api/v1/entities", dto.CreateEntityRequest{Name: "Other", BaseCurrency: "EUR"}, nil), http.StatusCreated, &other)

	s.decode(s.do(http.MethodGet, "/api/v1/entities/"+other.EntityID+"/journal-entries/"+entry.EntryID, nil, nil), http.StatusNotFound, nil)
	s.decode(s.do(http.MethodPost, "/api/v1/entities/"+other.EntityID+"/journal-entries/"+entry.EntryID+"/approve", nil, nil), http.StatusNotFound, nil)
}

func (s *HandlersTestSuite) TestReports() {
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "3000", "1000", "1000"), nil), http.StatusCreated, nil)
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "300", "300"), nil), http.StatusCreated, nil)

	var bs dto.BalanceSheetResponse
	s.decode(s.do(http.MethodGet, s.entityPath("/reports/balance-sheet?asOfDate=2024-01-31"), nil, nil), http.StatusOK, &bs)
	s.True(bs.Summary.IsBalanced)
	s.True(bs.Summary.TotalAssets.Equal(decimal.NewFromInt(1300)))
	s.True(bs.Summary.Difference.IsZero())

	var is dto.IncomeStatementResponse
	s.decode(s.do(http.MethodGet, s.entityPath("/reports/income-statement?startDate=2024-01-01&endDate=2024-01-31"), nil, nil), http.StatusOK, &is)
	s.True(is.Summary.NetIncome.Equal(decimal.NewFromInt(300)))

	s.decode(s.do(http.MethodGet, s.entityPath("/reports/income-statement?startDate=2024-01-01&endDate=2024-01-31&approvedOnly=true"), nil, nil), http.StatusOK, &is)
	s.True(is.Summary.NetIncome.IsZero())

	var tb dto.TrialBalanceResponse
	s.decode(s.do(http.MethodGet, s.entityPath("/reports/trial-balance?asOfDate=2024-01-31"), nil, nil), http.StatusOK, &tb)
	s.True(tb.Totals.IsBalanced)
	s.Len(tb.Rows, 3)

	s.decode(s.do(http.MethodGet, s.entityPath("/reports/income-statement?startDate=2024-02-01&endDate=2024-01-01"), nil, nil), http.StatusBadRequest, nil)
	s.decode(s.do(http.MethodGet, s.entityPath("/reports/balance-sheet?asOfDate=31-01-2024"), nil, nil), http.StatusBadRequest, nil)
}

func (s *HandlersTestSuite) TestAccountLookupsAndTypeLock() {
	var acc dto.AccountResponse
	s.decode(s.do(http.MethodGet, s.entityPath("/accounts/code/1000"), nil, nil), http.StatusOK, &acc)
	s.Equal(s.accounts["1000"], acc.AccountID)

	var filtered []dto.AccountResponse
	s.decode(s.do(http.MethodGet, s.entityPath("/accounts?type=REVENUE&type=EQUITY"), nil, nil), http.StatusOK, &filtered)
	s.Len(filtered, 2)

	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), s.entryRequest("1000", "4000", "5", "5"), nil), http.StatusCreated, nil)
	expense := domain.Expense
	s.decode(s.do(http.MethodPatch, s.entityPath("/accounts/"+s.accounts["4000"]), dto.UpdateAccountRequest{AccountType: &expense}, nil), http.StatusConflict, nil)

	s.decode(s.do(http.MethodPost, s.entityPath("/accounts"), dto.CreateAccountRequest{Code: "1000", Name: "Dup", AccountType: domain.Asset}, nil), http.StatusConflict, nil)
}

func (s *HandlersTestSuite) TestExchangeRateFillsForeignLine() {
	var created dto.ExchangeRateResponse
	s.decode(s.do(http.MethodPost, "/api/v1/exchange-rates", dto.CreateExchangeRateRequest{
		FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("1.1"), DateEffective: "2024-01-01",
	}, nil), http.StatusCreated, &created)
	s.Equal("2024-01-01", created.DateEffective)

	var got dto.ExchangeRateResponse
	s.decode(s.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD?asOfDate=2024-01-15", nil, nil), http.StatusOK, &got)
	s.Equal(created.ExchangeRateID, got.ExchangeRateID)
	s.decode(s.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD?asOfDate=2023-12-31", nil, nil), http.StatusNotFound, nil)

	req := s.entryRequest("1000", "4000", "100", "110")
	req.Lines[0].CurrencyCode = "EUR"
	var entry dto.JournalEntryResponse
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), req, nil), http.StatusCreated, &entry)
	s.True(entry.Lines[0].ExchangeRate.Equal(decimal.RequireFromString("1.1")))
	s.True(entry.Lines[0].BaseAmount.Equal(decimal.NewFromInt(110)))

	req = s.entryRequest("1000", "4000", "100", "100")
	req.Lines[0].CurrencyCode = "JPY"
	s.decode(s.do(http.MethodPost, s.entityPath("/journal-entries"), req, nil), http.StatusBadRequest, nil)

	s.decode(s.do(http.MethodPost, "/api/v1/exchange-rates", dto.CreateExchangeRateRequest{
		FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.Zero, DateEffective: "2024-01-01",
	}, nil), http.StatusBadRequest, nil)
}
