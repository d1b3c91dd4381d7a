package repositories

import (
	"context"
	"time"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListAccountsFilter narrows account listings. Nil fields mean "any".
type ListAccountsFilter struct {
	AccountType *domain.AccountType
	IsActive    *bool
}

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its human-assigned code.
	// Returns apperrors.ErrNotFound when no account carries the code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts matching the filter, ordered by code ascending.
	ListAccounts(ctx context.Context, filter ListAccountsFilter) ([]domain.Account, error)

	// HasJournalHistory reports whether any journal entry item references the account.
	HasJournalHistory(ctx context.Context, accountID string) (bool, error)

	// SumPostedActivity totals the debit and credit item amounts of posted
	// entries against the account, optionally bounded by entry date.
	SumPostedActivity(ctx context.Context, accountID string, startDate, endDate *time.Time) (debits, credits decimal.Decimal, err error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount persists changes to an existing account. The opening
	// balance and current balance are never written by this method.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Callers must ensure the account has
	// no journal history first.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
