package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/core/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindActiveAccountByTypeForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountType string) (*domain.Account, error) {
	args := m.Called(ctx, tx, companyID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) IncrementAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AutoPostServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.AutoPostSvc
	receivable      domain.Account
	revenue         domain.Account
	companyID       string
	userID          string
}

func (suite *AutoPostServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAutoPostService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.receivable = domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		Name:          "Accounts Receivable",
		AccountType:   "Accounts Receivable",
		NormalBalance: domain.DebitNormal,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
	suite.revenue = domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		Name:          "Sales Revenue",
		AccountType:   "Revenue",
		NormalBalance: domain.CreditNormal,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
}

func (suite *AutoPostServiceTestSuite) params(lines []dto.AutoEntryLine) dto.AutoEntryParams {
	return dto.AutoEntryParams{
		CompanyID:    suite.companyID,
		UserID:       suite.userID,
		EntryDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:  "Invoice INV-77 posted",
		CurrencyCode: "USD",
		SourceType:   "invoice",
		SourceID:     "INV-77",
		Lines:        lines,
	}
}

func (suite *AutoPostServiceTestSuite) TestPostAutoEntry_ByIDAndByType() {
	ctx := context.Background()
	p := suite.params([]dto.AutoEntryLine{
		{AccountID: &suite.receivable.AccountID, Debit: decimal.NewFromInt(100)},
		{AccountType: strPtr("Revenue"), Credit: decimal.NewFromInt(100)},
	})

	locked := map[string]domain.Account{suite.receivable.AccountID: suite.receivable}
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{suite.receivable.AccountID}).Return(locked, nil).Once()
	suite.mockAccountRepo.On("FindActiveAccountByTypeForUpdate", ctx, mock.Anything, suite.companyID, "Revenue").Return(&suite.revenue, nil).Once()
	suite.mockJournalRepo.On("NextEntryNumberInTx", ctx, mock.Anything, suite.companyID).Return(int64(3), nil).Once()

	entryMatch := mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.Posted &&
			e.EntryNumber == "JE-0003" &&
			e.SourceType != nil && *e.SourceType == "invoice" &&
			e.SourceID != nil && *e.SourceID == "INV-77" &&
			e.PostedAt != nil && e.PostedBy != nil && *e.PostedBy == suite.userID
	})
	changesMatch := mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[suite.receivable.AccountID].Equal(decimal.NewFromInt(100)) &&
			changes[suite.revenue.AccountID].Equal(decimal.NewFromInt(100))
	})
	suite.mockJournalRepo.On("InsertPostedEntryInTx", ctx, mock.Anything, entryMatch, mock.AnythingOfType("[]domain.JournalLine"), changesMatch).Return(nil).Once()

	entry, err := suite.service.PostAutoEntry(ctx, nil, p)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Posted, entry.Status)
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(suite.revenue.AccountID, entry.Lines[1].AccountID, "type reference resolves to the concrete account")
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AutoPostServiceTestSuite) TestPostAutoEntry_UnresolvedTypeWritesNothing() {
	ctx := context.Background()
	p := suite.params([]dto.AutoEntryLine{
		{AccountID: &suite.receivable.AccountID, Debit: decimal.NewFromInt(100)},
		{AccountType: strPtr("Sales Tax Payable"), Credit: decimal.NewFromInt(100)},
	})

	locked := map[string]domain.Account{suite.receivable.AccountID: suite.receivable}
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{suite.receivable.AccountID}).Return(locked, nil).Once()
	suite.mockAccountRepo.On("FindActiveAccountByTypeForUpdate", ctx, mock.Anything, suite.companyID, "Sales Tax Payable").Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.PostAutoEntry(ctx, nil, p)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountUnresolved)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertPostedEntryInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "NextEntryNumberInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AutoPostServiceTestSuite) TestPostAutoEntry_InactiveAccountUnresolved() {
	ctx := context.Background()
	inactive := suite.receivable
	inactive.IsActive = false
	p := suite.params([]dto.AutoEntryLine{
		{AccountID: &inactive.AccountID, Debit: decimal.NewFromInt(100)},
		{AccountID: &suite.revenue.AccountID, Credit: decimal.NewFromInt(100)},
	})

	locked := map[string]domain.Account{
		inactive.AccountID:      inactive,
		suite.revenue.AccountID: suite.revenue,
	}
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, mock.Anything).Return(locked, nil).Once()

	_, err := suite.service.PostAutoEntry(ctx, nil, p)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountUnresolved)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertPostedEntryInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AutoPostServiceTestSuite) TestPostAutoEntry_UnbalancedRejected() {
	ctx := context.Background()
	p := suite.params([]dto.AutoEntryLine{
		{AccountID: &suite.receivable.AccountID, Debit: decimal.NewFromInt(100)},
		{AccountID: &suite.revenue.AccountID, Credit: decimal.NewFromInt(90)},
	})

	locked := map[string]domain.Account{
		suite.receivable.AccountID: suite.receivable,
		suite.revenue.AccountID:    suite.revenue,
	}
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, mock.Anything).Return(locked, nil).Once()

	_, err := suite.service.PostAutoEntry(ctx, nil, p)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertPostedEntryInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AutoPostServiceTestSuite) TestPostAutoEntry_TooFewLines() {
	ctx := context.Background()
	p := suite.params([]dto.AutoEntryLine{
		{AccountID: &suite.receivable.AccountID, Debit: decimal.NewFromInt(100)},
	})

	_, err := suite.service.PostAutoEntry(ctx, nil, p)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AutoPostServiceTestSuite) TestPostAutoEntry_LineNeedsAReference() {
	ctx := context.Background()
	p := suite.params([]dto.AutoEntryLine{
		{Debit: decimal.NewFromInt(100)},
		{AccountID: &suite.revenue.AccountID, Credit: decimal.NewFromInt(100)},
	})

	_, err := suite.service.PostAutoEntry(ctx, nil, p)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func strPtr(s string) *string { return &s }

func TestAutoPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AutoPostServiceTestSuite))
}
