package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencydesk/agency_backend/internal/apperrors"
	"github.com/agencydesk/agency_backend/internal/core/domain"
	portsrepo "github.com/agencydesk/agency_backend/internal/core/ports/repositories"
	portssvc "github.com/agencydesk/agency_backend/internal/core/ports/services"
	"github.com/agencydesk/agency_backend/internal/dto"
	"github.com/agencydesk/agency_backend/internal/middleware"
	"github.com/agencydesk/agency_backend/internal/utils/accounting"
)

var (
	ErrDuplicateAccountCode = errors.New("account code already in use")
	ErrParentAccountMissing = errors.New("parent account does not exist")
	ErrAccountHasHistory    = errors.New("account has journal history and cannot be deleted")
)

// accountService provides chart-of-accounts operations and balance resolution.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountService = (*accountService)(nil)

// CreateAccount creates a new account after validating code uniqueness, the
// type enum, and the parent reference.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if err := s.ensureCodeAvailable(ctx, req.Code, ""); err != nil {
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrParentAccountMissing, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to look up parent account: %w", err)
		}
		parentID = parent.AccountID
	}

	openingBalance := decimal.Zero
	if req.OpeningBalance != nil {
		openingBalance = *req.OpeningBalance
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		SubType:         req.SubType,
		ParentAccountID: parentID,
		Description:     req.Description,
		OpeningBalance:  openingBalance,
		CurrentBalance:  openingBalance,
		IsActive:        isActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves accounts matching the filter, ordered by code ascending.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.ListAccountsFilter{IsActive: params.IsActive}
	if params.AccountType != nil {
		accountType := domain.AccountType(*params.AccountType)
		if !accountType.IsValid() {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *params.AccountType)
		}
		filter.AccountType = &accountType
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount applies a partial update to an account. The opening balance
// and current balance are not updatable through this path.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Code != nil && *req.Code != account.Code {
		if err := s.ensureCodeAvailable(ctx, *req.Code, accountID); err != nil {
			return nil, err
		}
		account.Code = *req.Code
		updated = true
	}
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.SubType != nil {
		account.SubType = *req.SubType
		updated = true
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID == "" {
			account.ParentAccountID = ""
		} else {
			if *req.ParentAccountID == accountID {
				return nil, fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrValidation)
			}
			parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrParentAccountMissing, *req.ParentAccountID)
				}
				return nil, fmt.Errorf("failed to look up parent account: %w", err)
			}
			account.ParentAccountID = parent.AccountID
		}
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes an account that has never been referenced by a
// journal entry item.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	hasHistory, err := s.accountRepo.HasJournalHistory(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check journal history for account %s: %w", accountID, err)
	}
	if hasHistory {
		return fmt.Errorf("%w: %w: %s", apperrors.ErrConflict, ErrAccountHasHistory, accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

// GetAccountBalance recomputes the account balance from posted history plus
// the opening balance, honoring the balance sign convention. The stored
// current balance is deliberately ignored here.
func (s *accountService) GetAccountBalance(ctx context.Context, accountID string, startDate, endDate *time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	debits, credits, err := s.accountRepo.SumPostedActivity(ctx, accountID, startDate, endDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted activity for account %s: %w", accountID, err)
	}

	balance, err := accounting.ResolveBalance(account.AccountType, account.OpeningBalance, debits, credits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

// ensureCodeAvailable fails with ErrDuplicateAccountCode when another account
// already carries the code.
func (s *accountService) ensureCodeAvailable(ctx context.Context, code, selfID string) error {
	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check code uniqueness: %w", err)
	}
	if existing.AccountID != selfID {
		return fmt.Errorf("%w: %w: %s", apperrors.ErrDuplicate, ErrDuplicateAccountCode, code)
	}
	return nil
}
