package services_test

import (
	"context"
	"strings"
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

// --- Mock EntryRepository ---
type MockEntryRepository struct {
	mock.Mock
}

// Ensure MockEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryItem, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryItem), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error {
	args := m.Called(ctx, entry, items)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error {
	args := m.Called(ctx, entry, items)
	return args.Error(0)
}

func (m *MockEntryRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, entry, balanceChanges)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, items []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal, original domain.JournalEntry) error {
	args := m.Called(ctx, reversing, items, balanceChanges, original)
	return args.Error(0)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Mock AccountService (as used by JournalService) ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountService = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountService) GetAccountBalance(ctx context.Context, accountID string, startDate, endDate *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, startDate, endDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockEntryRepo    *MockEntryRepository
	mockAccountSvc   *MockAccountService
	service          portssvc.JournalService
	assetAccount     domain.Account
	liabilityAccount domain.Account
	revenueAccount   domain.Account
	userID           string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewJournalService(suite.mockEntryRepo, suite.mockAccountSvc)

	suite.userID = uuid.NewString()

	suite.assetAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.liabilityAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2000",
		AccountType: domain.Liability,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		m[acc.AccountID] = acc
	}
	return m
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: "Invoice client",
		Items: []dto.CreateEntryItemRequest{
			{AccountID: suite.assetAccount.AccountID, ItemType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, ItemType: domain.Credit, Amount: decimal.NewFromInt(100)},
		},
	}

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.assetAccount, suite.revenueAccount), nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryItem")).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.EntryID)
	suite.True(strings.HasPrefix(created.EntryNo, "JE-"), "entry number carries the JE- prefix, got %s", created.EntryNo)
	suite.Equal(domain.Draft, created.Status)
	suite.Nil(created.PostedBy)
	suite.Len(created.Items, 2)
	suite.Equal(suite.userID, created.CreatedBy)

	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnbalancedPersistsNothing() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		EntryDate: time.Now().UTC(),
		Items: []dto.CreateEntryItemRequest{
			{AccountID: suite.assetAccount.AccountID, ItemType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, ItemType: domain.Credit, Amount: decimal.NewFromFloat(99.98)},
		},
	}

	created, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_WithinToleranceAccepted() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		EntryDate: time.Now().UTC(),
		Items: []dto.CreateEntryItemRequest{
			{AccountID: suite.assetAccount.AccountID, ItemType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, ItemType: domain.Credit, Amount: decimal.NewFromFloat(99.99)},
		},
	}

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.assetAccount, suite.revenueAccount), nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryItem")).Return(nil).Once()

	created, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleAccountRejected() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		EntryDate: time.Now().UTC(),
		Items: []dto.CreateEntryItemRequest{
			{AccountID: suite.assetAccount.AccountID, ItemType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: suite.assetAccount.AccountID, ItemType: domain.Credit, Amount: decimal.NewFromInt(100)},
		},
	}

	created, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrEntryMinAccounts)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccountRejected() {
	ctx := context.Background()
	inactive := suite.liabilityAccount
	inactive.IsActive = false

	req := dto.CreateJournalEntryRequest{
		EntryDate: time.Now().UTC(),
		Items: []dto.CreateEntryItemRequest{
			{AccountID: suite.assetAccount.AccountID, ItemType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: inactive.AccountID, ItemType: domain.Credit, Amount: decimal.NewFromInt(100)},
		},
	}

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.assetAccount, inactive), nil).Once()

	created, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrInactiveAccount)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:   entryID,
		EntryNo:   "JE-TEST",
		EntryDate: time.Now().UTC(),
		Status:    domain.Draft,
	}
	items := []domain.JournalEntryItem{
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.assetAccount.AccountID, ItemType: domain.Debit, Amount: decimal.NewFromInt(100)},
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, ItemType: domain.Credit, Amount: decimal.NewFromInt(100)},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()
	suite.mockEntryRepo.On("FindItemsByEntryID", ctx, entryID).Return(items, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.assetAccount, suite.revenueAccount), nil).Once()

	// Debiting an asset grows it; crediting revenue grows it too.
	expectedChanges := func(changes map[string]decimal.Decimal) bool {
		return changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(100)) &&
			changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(100))
	}
	suite.mockEntryRepo.On("PostEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(expectedChanges)).Return(nil).Once()

	posted, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedBy)
	suite.Equal(suite.userID, *posted.PostedBy)
	suite.NotNil(posted.PostedAt)

	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPostedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.Posted}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	result, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_PostedImmutable() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.Posted}
	desc := "new description"

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	result, err := suite.service.UpdateEntry(ctx, entryID, dto.UpdateJournalEntryRequest{Description: &desc}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	postedAt := time.Now().UTC()
	original := &domain.JournalEntry{
		EntryID:   entryID,
		EntryNo:   "JE-ORIG",
		EntryDate: postedAt,
		Status:    domain.Posted,
		PostedAt:  &postedAt,
	}
	items := []domain.JournalEntryItem{
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.assetAccount.AccountID, ItemType: domain.Debit, Amount: decimal.NewFromInt(250)},
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.liabilityAccount.AccountID, ItemType: domain.Credit, Amount: decimal.NewFromInt(250)},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(original, nil).Once()
	suite.mockEntryRepo.On("FindItemsByEntryID", ctx, entryID).Return(items, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.assetAccount, suite.liabilityAccount), nil).Once()

	// The counter-entry undoes the original: both balances shrink by 250.
	expectedChanges := func(changes map[string]decimal.Decimal) bool {
		return changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(-250)) &&
			changes[suite.liabilityAccount.AccountID].Equal(decimal.NewFromInt(-250))
	}
	suite.mockEntryRepo.On("SaveReversal", ctx,
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalEntryItem"),
		mock.MatchedBy(expectedChanges),
		mock.AnythingOfType("domain.JournalEntry"),
	).Return(nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.Posted, reversal.Status)
	suite.Require().NotNil(reversal.OriginalEntryID)
	suite.Equal(entryID, *reversal.OriginalEntryID)
	suite.Contains(reversal.Description, "Reversal of JE-ORIG")
	suite.Require().Len(reversal.Items, 2)
	suite.Equal(domain.Credit, reversal.Items[0].ItemType, "debit line flips to credit")
	suite.Equal(domain.Debit, reversal.Items[1].ItemType, "credit line flips to debit")

	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_OfReversalRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	originalID := uuid.NewString()
	reversalEntry := &domain.JournalEntry{
		EntryID:         entryID,
		Status:          domain.Posted,
		OriginalEntryID: &originalID,
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(reversalEntry, nil).Once()

	result, err := suite.service.ReverseEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrEntryIsReversal)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, Status: domain.Draft}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()

	result, err := suite.service.ReverseEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrEntryNotPosted)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_PostedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.Posted}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	err := suite.service.DeleteEntry(ctx, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListEntries_InvalidStatusRejected() {
	ctx := context.Background()
	status := "NONSENSE"

	result, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{Status: &status})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrUnknownItemStatus)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "ListEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
