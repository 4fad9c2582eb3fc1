package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/core/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	companyID       string
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_StartsActiveWithZeroBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:          "Cash",
		AccountType:   "Cash",
		NormalBalance: domain.DebitNormal,
		CurrencyCode:  "USD",
	}

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Account) }).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.companyID, account.CompanyID)
	suite.True(account.IsActive)
	suite.True(account.Balance.Equal(decimal.Zero))
	suite.Equal(suite.userID, account.CreatedBy)
	suite.Equal(saved.AccountID, account.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherCompanyLooksMissing() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: uuid.NewString(), // some other company
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.companyID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountsByIDs_FiltersOtherCompanies() {
	ctx := context.Background()
	mine := domain.Account{AccountID: uuid.NewString(), CompanyID: suite.companyID}
	theirs := domain.Account{AccountID: uuid.NewString(), CompanyID: uuid.NewString()}
	ids := []string{mine.AccountID, theirs.AccountID}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, ids).Return(map[string]domain.Account{
		mine.AccountID:   mine,
		theirs.AccountID: theirs,
	}, nil).Once()

	accounts, err := suite.service.GetAccountsByIDs(ctx, suite.companyID, ids)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.Contains(accounts, mine.AccountID)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_PatchesOnlyProvidedFields() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Old Name",
		Description: "keep me",
		IsActive:    true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	newName := "New Name"
	updated, err := suite.service.UpdateAccount(ctx, suite.companyID, account.AccountID, dto.UpdateAccountRequest{Name: &newName}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("New Name", updated.Name)
	suite.Equal("keep me", updated.Description)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), CompanyID: suite.companyID, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_ClampsLimit() {
	ctx := context.Background()

	suite.mockAccountRepo.On("ListAccounts", ctx, suite.companyID, 20, 0).Return([]domain.Account{}, nil).Once()

	_, err := suite.service.ListAccounts(ctx, suite.companyID, dto.ListAccountsParams{Limit: 9999, Offset: -5})

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
