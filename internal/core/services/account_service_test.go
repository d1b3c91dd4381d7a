package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/agencydesk/agency_backend/internal/apperrors"
	"github.com/agencydesk/agency_backend/internal/core/domain"
	portsrepo "github.com/agencydesk/agency_backend/internal/core/ports/repositories"
	portssvc "github.com/agencydesk/agency_backend/internal/core/ports/services"
	"github.com/agencydesk/agency_backend/internal/core/services"
	"github.com/agencydesk/agency_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
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

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasJournalHistory(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SumPostedActivity(ctx context.Context, accountID string, startDate, endDate *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, startDate, endDate)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountService
	userID   string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	opening := decimal.NewFromInt(500)
	req := dto.CreateAccountRequest{
		Code:           "1000",
		Name:           "Cash",
		AccountType:    domain.Asset,
		OpeningBalance: &opening,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal("1000", created.Code)
	suite.Equal(domain.Asset, created.AccountType)
	suite.True(created.IsActive)
	suite.True(created.OpeningBalance.Equal(opening))
	suite.True(created.CurrentBalance.Equal(opening), "current balance starts at the opening balance")
	suite.Equal(suite.userID, created.CreatedBy)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}

	existing := &domain.Account{AccountID: uuid.NewString(), Code: "1000"}
	suite.mockRepo.On("FindAccountByCode", ctx, "1000").Return(existing, nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.ErrorIs(err, services.ErrDuplicateAccountCode)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "BOGUS"}

	created, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentMissing() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{Code: "1100", Name: "Petty Cash", AccountType: domain.Asset, ParentAccountID: &parentID}

	suite.mockRepo.On("FindAccountByCode", ctx, "1100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrParentAccountMissing)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParentRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "2000", AccountType: domain.Liability}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{ParentAccountID: &accountID}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_WithHistoryRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "4000", AccountType: domain.Revenue}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("HasJournalHistory", ctx, accountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrAccountHasHistory)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "4000", AccountType: domain.Revenue}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("HasJournalHistory", ctx, accountID).Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, accountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, accountID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountBalance_AssetConvention() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:      accountID,
		AccountType:    domain.Asset,
		OpeningBalance: decimal.NewFromInt(1000),
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("SumPostedActivity", ctx, accountID, (*time.Time)(nil), (*time.Time)(nil)).
		Return(decimal.NewFromInt(200), decimal.NewFromInt(50), nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, accountID, nil, nil)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(1150)), "asset: opening + debits - credits, got %s", balance)
}

func (suite *AccountServiceTestSuite) TestGetAccountBalance_LiabilityConvention() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:      accountID,
		AccountType:    domain.Liability,
		OpeningBalance: decimal.NewFromInt(1000),
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("SumPostedActivity", ctx, accountID, (*time.Time)(nil), (*time.Time)(nil)).
		Return(decimal.NewFromInt(200), decimal.NewFromInt(50), nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, accountID, nil, nil)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(850)), "liability: opening - debits + credits, got %s", balance)
}

func (suite *AccountServiceTestSuite) TestListAccounts_InvalidTypeFilter() {
	ctx := context.Background()
	badType := "NONSENSE"

	accounts, err := suite.service.ListAccounts(ctx, dto.ListAccountsParams{AccountType: &badType})

	suite.Require().Error(err)
	suite.Nil(accounts)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
