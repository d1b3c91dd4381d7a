package services

import (
	"context"
	"time"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/agencydesk/agency_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountService manages the chart of accounts and resolves account balances.
type AccountService interface {
	// CreateAccount creates a new account after validating code uniqueness,
	// the account type enum, and the parent reference.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves a single account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts filtered by type and/or active flag,
	// ordered by code ascending.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// UpdateAccount applies a partial update, re-running the creation
	// validation rules on any field present.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account that has no journal history.
	DeleteAccount(ctx context.Context, accountID string) error

	// GetAccountBalance recomputes the account's balance from posted history
	// plus the opening balance, honoring the balance sign convention. The
	// stored current balance is deliberately ignored.
	GetAccountBalance(ctx context.Context, accountID string, startDate, endDate *time.Time) (decimal.Decimal, error)
}
