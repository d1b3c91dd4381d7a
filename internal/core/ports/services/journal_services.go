package services

import (
	"context"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/agencydesk/agency_backend/internal/dto"
)

// JournalService manages the journal entry lifecycle: draft creation and
// editing, posting to the ledger, reversal, and deletion of drafts.
type JournalService interface {
	// CreateEntry validates the double-entry invariant and persists a new
	// draft entry with its items atomically.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its items.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries, optionally filtered
	// by status.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// UpdateEntry updates a draft entry; posted and reversed entries are
	// immutable. A supplied item set replaces the existing one after
	// re-validating the balance invariant.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry applies a draft entry's items to account balances and flips
	// it to POSTED. Posting is atomic and cannot be repeated.
	PostEntry(ctx context.Context, entryID string, postedByUserID string) (*domain.JournalEntry, error)

	// ReverseEntry creates a balancing counter-entry for a posted entry and
	// flips the original to REVERSED.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry and its items.
	DeleteEntry(ctx context.Context, entryID string) error
}
