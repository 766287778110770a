package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	periodRepo *MockPeriodRepository
	entityRepo *MockEntityRepository
	tx         *MockLedgerTx
	service    portssvc.PeriodSvcFacade
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.periodRepo = new(MockPeriodRepository)
	suite.entityRepo = new(MockEntityRepository)
	suite.tx = new(MockLedgerTx)
	suite.service = services.NewPeriodService(suite.periodRepo, suite.entityRepo, &fakeUnitOfWork{tx: suite.tx},
		services.WithClock(func() time.Time { return fixedNow }))
}

func (suite *PeriodServiceTestSuite) TestTransitionMatrix() {
	all := []domain.PeriodStatus{domain.PeriodOpen, domain.PeriodClosed, domain.PeriodLocked}
	allowed := map[[2]domain.PeriodStatus]bool{
		{domain.PeriodOpen, domain.PeriodClosed}:   true,
		{domain.PeriodClosed, domain.PeriodLocked}: true,
	}
	for _, from := range all {
		for _, to := range all {
			suite.Run(string(from)+"->"+string(to), func() {
				suite.tx.On("FindPeriodForUpdate", mock.Anything, "per-1").
					Return(&domain.Period{PeriodID: "per-1", Status: from}, nil).Once()
				if allowed[[2]domain.PeriodStatus{from, to}] {
					suite.tx.On("UpdatePeriodStatus", mock.Anything, "per-1", to, "admin", fixedNow).Return(nil).Once()
				}

				p, err := suite.service.Transition(suite.ctx, "per-1", to, "admin")

				if allowed[[2]domain.PeriodStatus{from, to}] {
					suite.Require().NoError(err)
					suite.Equal(to, p.Status)
					return
				}
				suite.ErrorIs(err, apperrors.ErrInvalidPeriodTransition)
				var transitionErr *apperrors.InvalidPeriodTransitionError
				suite.Require().True(errors.As(err, &transitionErr))
				suite.Equal(string(from), transitionErr.From)
				suite.Equal(string(to), transitionErr.To)
			})
		}
	}
}

func (suite *PeriodServiceTestSuite) TestTransition_UnknownStatus() {
	_, err := suite.service.Transition(suite.ctx, "per-1", "ARCHIVED", "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PeriodServiceTestSuite) TestIsEditable() {
	suite.periodRepo.On("FindPeriodByID", suite.ctx, "per-1").Return(&domain.Period{Status: domain.PeriodOpen}, nil).Once()
	suite.periodRepo.On("FindPeriodByID", suite.ctx, "per-2").Return(&domain.Period{Status: domain.PeriodLocked}, nil).Once()
	suite.periodRepo.On("FindPeriodByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	ok, err := suite.service.IsEditable(suite.ctx, "per-1")
	suite.NoError(err)
	suite.True(ok)

	ok, err = suite.service.IsEditable(suite.ctx, "per-2")
	suite.NoError(err)
	suite.False(ok)

	_, err = suite.service.IsEditable(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_StartAfterEnd() {
	_, err := suite.service.CreatePeriod(suite.ctx, "ent-1", dto.CreatePeriodRequest{StartDate: "2024-02-01", EndDate: "2024-01-01"}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_FirstPeriod() {
	suite.entityRepo.On("FindEntityByID", suite.ctx, "ent-1").Return(&domain.Entity{EntityID: "ent-1"}, nil).Once()
	suite.periodRepo.On("FindOpenPeriod", suite.ctx, "ent-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.periodRepo.On("FindLatestPeriod", suite.ctx, "ent-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.periodRepo.On("SavePeriod", suite.ctx, mock.AnythingOfType("domain.Period")).Return(nil).Once()

	p, err := suite.service.CreatePeriod(suite.ctx, "ent-1", dto.CreatePeriodRequest{Name: "FY24-Q1", StartDate: "2024-01-01", EndDate: "2024-03-31"}, "admin")

	suite.Require().NoError(err)
	suite.Equal("FY24-Q1", p.Name)
	suite.Equal(domain.PeriodOpen, p.Status)
	suite.periodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestCurrentOpenPeriod_None() {
	suite.periodRepo.On("FindOpenPeriod", suite.ctx, "ent-1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CurrentOpenPeriod(suite.ctx, "ent-1")
	suite.ErrorIs(err, apperrors.ErrNoOpenPeriod)
}
