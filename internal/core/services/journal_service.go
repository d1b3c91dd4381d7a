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
	"github.com/agencydesk/agency_backend/internal/utils"
	"github.com/agencydesk/agency_backend/internal/utils/accounting"
)

var (
	ErrEntryUnbalanced   = errors.New("journal entry items do not balance")
	ErrEntryMinItems     = errors.New("journal entry must have at least two line items")
	ErrEntryMinAccounts  = errors.New("journal entry must affect at least two different accounts")
	ErrAccountNotFound   = errors.New("account not found")
	ErrEntryNotDraft     = errors.New("journal entry is not a draft")
	ErrEntryNotPosted    = errors.New("journal entry is not posted")
	ErrEntryIsReversal   = errors.New("cannot reverse a journal entry that is already a reversal")
	ErrInactiveAccount   = errors.New("account is inactive")
	ErrUnknownItemStatus = errors.New("unknown entry status filter")
)

// journalService provides the journal entry lifecycle operations.
type journalService struct {
	entryRepo  portsrepo.EntryRepositoryFacade
	accountSvc portssvc.AccountService
}

// NewJournalService creates a new JournalService.
func NewJournalService(entryRepo portsrepo.EntryRepositoryFacade, accountSvc portssvc.AccountService) portssvc.JournalService {
	return &journalService{
		entryRepo:  entryRepo,
		accountSvc: accountSvc,
	}
}

var _ portssvc.JournalService = (*journalService)(nil)

// CreateEntry validates the double-entry invariant and persists a new draft
// entry with its items in a single transaction.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	entryID := uuid.NewString()

	items, err := s.buildItems(entryID, req.Items, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.validateItems(ctx, items); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryNo:     utils.NewEntryNumber(),
		EntryDate:   req.EntryDate,
		Status:      domain.Draft,
		Description: req.Description,
		Reference:   req.Reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, items); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_no", entry.EntryNo))
	entry.Items = items
	return &entry, nil
}

// GetEntryByID retrieves an entry together with its items.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	items, err := s.entryRepo.FindItemsByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch items for journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve items for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Items = items
	return entry, nil
}

// ListEntries retrieves a paginated list of entries, optionally filtered by status.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.EntryStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.EntryStatus(*params.Status)
		switch st {
		case domain.Draft, domain.Posted, domain.Reversed:
			status = &st
		default:
			return nil, fmt.Errorf("%w: %w: %q", apperrors.ErrValidation, ErrUnknownItemStatus, *params.Status)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, status, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// UpdateEntry updates a draft entry's header fields and, when items are
// supplied, replaces the item set wholesale after re-validating the balance
// invariant over the new set.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.IsEditable() {
		return nil, fmt.Errorf("%w: %w: status is %s", apperrors.ErrConflict, ErrEntryNotDraft, entry.Status)
	}

	now := time.Now().UTC()

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Reference != nil {
		entry.Reference = *req.Reference
	}

	var items []domain.JournalEntryItem
	if req.Items != nil {
		items, err = s.buildItems(entryID, req.Items, userID, now)
		if err != nil {
			return nil, err
		}
		if err := s.validateItems(ctx, items); err != nil {
			return nil, err
		}
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.UpdateEntry(ctx, *entry, items); err != nil {
		logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID), slog.Bool("items_replaced", items != nil))
	if items != nil {
		entry.Items = items
	} else {
		entry.Items, err = s.entryRepo.FindItemsByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve items for entry %s: %w", entryID, err)
		}
	}
	return entry, nil
}

// PostEntry applies a draft entry's items to account balances and flips the
// entry to POSTED. The repository performs the whole mutation in one
// transaction with the accounts locked; a second post attempt fails here on
// the status check and in the repository on the guarded status flip.
func (s *journalService) PostEntry(ctx context.Context, entryID string, postedByUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: %w: status is %s", apperrors.ErrConflict, ErrEntryNotDraft, entry.Status)
	}

	items, err := s.entryRepo.FindItemsByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve items for entry %s: %w", entryID, err)
	}

	// Drafts are validated at write time, but the invariant is cheap to
	// re-check and posting is irreversible.
	if err := accounting.ValidateEntryBalance(items); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", apperrors.ErrValidation, ErrEntryUnbalanced, err)
	}

	balanceChanges, err := s.calculateBalanceChanges(ctx, items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostedBy = &postedByUserID
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = postedByUserID

	if err := s.entryRepo.PostEntry(ctx, *entry, balanceChanges); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("posted_by", postedByUserID))
	entry.Items = items
	return entry, nil
}

// ReverseEntry creates a balancing counter-entry (debits and credits swapped)
// for a posted entry, posts it immediately, and flips the original to
// REVERSED, all in one transaction.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %w: status is %s", apperrors.ErrConflict, ErrEntryNotPosted, original.Status)
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrEntryIsReversal)
	}

	originalItems, err := s.entryRepo.FindItemsByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve items for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversingItems := make([]domain.JournalEntryItem, len(originalItems))
	for i, origItem := range originalItems {
		itemType := domain.Credit
		if origItem.ItemType == domain.Credit {
			itemType = domain.Debit
		}
		reversingItems[i] = domain.JournalEntryItem{
			ItemID:      uuid.NewString(),
			EntryID:     reversingID,
			AccountID:   origItem.AccountID,
			ItemType:    itemType,
			Amount:      origItem.Amount,
			Description: origItem.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	balanceChanges, err := s.calculateBalanceChanges(ctx, reversingItems)
	if err != nil {
		return nil, err
	}

	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		EntryNo:         utils.NewEntryNumber(),
		EntryDate:       original.EntryDate,
		Status:          domain.Posted,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNo, original.Description),
		Reference:       original.Reference,
		PostedBy:        &userID,
		PostedAt:        &now,
		OriginalEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.entryRepo.SaveReversal(ctx, reversing, reversingItems, balanceChanges, *original); err != nil {
		logger.Error("Failed to save reversing journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}

	logger.Info("Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversing_entry_id", reversingID))
	reversing.Items = reversingItems
	return &reversing, nil
}

// DeleteEntry removes a draft entry and all its items.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}

	if !entry.IsEditable() {
		return fmt.Errorf("%w: %w: status is %s", apperrors.ErrConflict, ErrEntryNotDraft, entry.Status)
	}

	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}

// buildItems converts item requests into domain items linked to the entry.
func (s *journalService) buildItems(entryID string, reqs []dto.CreateEntryItemRequest, userID string, now time.Time) ([]domain.JournalEntryItem, error) {
	items := make([]domain.JournalEntryItem, len(reqs))
	for i, itemReq := range reqs {
		if itemReq.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: line item amount must be positive for account %s", apperrors.ErrValidation, itemReq.AccountID)
		}
		items[i] = domain.JournalEntryItem{
			ItemID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   itemReq.AccountID,
			ItemType:    itemReq.ItemType,
			Amount:      itemReq.Amount,
			Description: itemReq.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return items, nil
}

// validateItems enforces the double-entry invariant and checks that every
// referenced account exists and is active.
func (s *journalService) validateItems(ctx context.Context, items []domain.JournalEntryItem) error {
	if len(items) < 2 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryMinItems)
	}

	accountSet := make(map[string]struct{})
	for _, item := range items {
		accountSet[item.AccountID] = struct{}{}
	}
	if len(accountSet) < 2 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryMinAccounts)
	}

	if err := accounting.ValidateEntryBalance(items); err != nil {
		return fmt.Errorf("%w: %w: %v", apperrors.ErrValidation, ErrEntryUnbalanced, err)
	}

	accountIDs := make([]string, 0, len(accountSet))
	for id := range accountSet {
		accountIDs = append(accountIDs, id)
	}
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return fmt.Errorf("%w: %w: ID %s", apperrors.ErrValidation, ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrInactiveAccount, id)
		}
	}
	return nil
}

// calculateBalanceChanges nets the convention-aware signed deltas per account.
func (s *journalService) calculateBalanceChanges(ctx context.Context, items []domain.JournalEntryItem) (map[string]decimal.Decimal, error) {
	accountIDs := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.AccountID]; !ok {
			seen[item.AccountID] = struct{}{}
			accountIDs = append(accountIDs, item.AccountID)
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for balance calculation: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal, len(accountsMap))
	for _, item := range items {
		acc, found := accountsMap[item.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: %w: ID %s", apperrors.ErrValidation, ErrAccountNotFound, item.AccountID)
		}
		signedAmount, err := accounting.SignedAmount(item, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate signed amount: %w", err)
		}
		balanceChanges[item.AccountID] = balanceChanges[item.AccountID].Add(signedAmount)
	}
	return balanceChanges, nil
}
