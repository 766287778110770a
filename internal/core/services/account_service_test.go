package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	entityRepo *MockEntityRepository
	service    portssvc.AccountSvcFacade
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.entityRepo = new(MockEntityRepository)
	suite.service = services.NewAccountService(suite.mockRepo, suite.entityRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        " 1000 ",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.entityRepo.On("FindEntityByID", ctx, "ent-1").Return(&domain.Entity{EntityID: "ent-1"}, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, "ent-1", req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal("1000", createdAccount.Code)
	suite.Equal("ent-1", createdAccount.EntityID)
	suite.True(createdAccount.IsActive)
	suite.Equal(creatorUserID, createdAccount.CreatedBy)
	suite.WithinDuration(time.Now(), createdAccount.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	suite.entityRepo.On("FindEntityByID", ctx, "ent-1").Return(&domain.Entity{EntityID: "ent-1"}, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	acc, err := suite.service.CreateAccount(ctx, "ent-1", dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}, "u")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := suite.service.CreateAccount(context.Background(), "ent-1",
		dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "BOGUS"}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.entityRepo.AssertNotCalled(suite.T(), "FindEntityByID", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentFromOtherEntity() {
	ctx := context.Background()
	parentID := "parent-1"
	suite.entityRepo.On("FindEntityByID", ctx, "ent-1").Return(&domain.Entity{EntityID: "ent-1"}, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parentID).
		Return(&domain.Account{AccountID: parentID, EntityID: "ent-2", IsActive: true}, nil).Once()

	_, err := suite.service.CreateAccount(ctx, "ent-1",
		dto.CreateAccountRequest{Code: "1010", Name: "Petty cash", AccountType: domain.Asset, ParentAccountID: &parentID}, "u")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingParent() {
	ctx := context.Background()
	parentID := "nope"
	suite.entityRepo.On("FindEntityByID", ctx, "ent-1").Return(&domain.Entity{EntityID: "ent-1"}, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, "ent-1",
		dto.CreateAccountRequest{Code: "1010", Name: "Petty cash", AccountType: domain.Asset, ParentAccountID: &parentID}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_WrongEntity() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1", EntityID: "ent-2"}, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, "ent-1", "acc-1")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(nil, assert.AnError).Once()

	account, err := suite.service.GetAccountByID(ctx, "ent-1", "acc-1")

	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestFindAccountsByEntity_FiltersByType() {
	ctx := context.Background()
	types := []domain.AccountType{domain.Revenue, domain.Expense}
	suite.entityRepo.On("FindEntityByID", ctx, "ent-1").Return(&domain.Entity{EntityID: "ent-1"}, nil).Once()
	suite.mockRepo.On("FindAccountsByEntity", ctx, "ent-1", types).
		Return([]domain.Account{{Code: "4000"}, {Code: "5000"}}, nil).Once()

	accounts, err := suite.service.FindAccountsByEntity(ctx, "ent-1", types...)

	suite.Require().NoError(err)
	suite.Len(accounts, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_TypeLocked() {
	ctx := context.Background()
	existing := &domain.Account{AccountID: "acc-1", EntityID: "ent-1", AccountType: domain.Asset}
	newType := domain.Expense
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account"), &newType).
		Return(nil, apperrors.ErrAccountTypeLocked).Once()

	_, err := suite.service.UpdateAccount(ctx, "ent-1", "acc-1", dto.UpdateAccountRequest{AccountType: &newType}, "u")

	suite.ErrorIs(err, apperrors.ErrAccountTypeLocked)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NameOnlyLeavesTypeToStore() {
	ctx := context.Background()
	existing := &domain.Account{AccountID: "acc-1", EntityID: "ent-1", Name: "Cash", AccountType: domain.Asset}
	sameType := domain.Asset
	name := "  Petty cash "
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Petty cash" && a.LastUpdatedBy == "u"
	}), (*domain.AccountType)(nil)).
		Return(&domain.Account{AccountID: "acc-1", EntityID: "ent-1", Name: "Petty cash", AccountType: domain.Asset}, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, "ent-1", "acc-1",
		dto.UpdateAccountRequest{Name: &name, AccountType: &sameType}, "u")

	suite.Require().NoError(err)
	suite.Equal("Petty cash", updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1", EntityID: "ent-1", IsActive: true}, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, "acc-1", "u", mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.NoError(suite.service.DeactivateAccount(ctx, "ent-1", "acc-1", "u"))
	suite.mockRepo.AssertExpectations(suite.T())
}
