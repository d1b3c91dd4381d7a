package repositories

import (
	"context"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier,
	// without items.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindItemsByEntryID retrieves all line items of an entry.
	FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryItem, error)

	// ListEntries retrieves a paginated list of entries using token-based
	// pagination, newest first, optionally filtered by status.
	ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entry data. Each method
// runs in a single database transaction: partial writes are never visible.
type EntryWriter interface {
	// SaveEntry persists a draft entry together with all its items.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error

	// UpdateEntry persists header changes to a draft entry. When items is
	// non-nil the existing item set is replaced wholesale (delete-all then
	// insert-all) in the same transaction.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error

	// PostEntry flips a draft entry to POSTED and applies balanceChanges to
	// the referenced accounts. Accounts are locked for the duration and
	// balances updated with atomic increments; any failure rolls back both
	// the status flip and every balance change. The entry must carry
	// PostedBy/PostedAt already set.
	PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error

	// SaveReversal persists a posted counter-entry, applies its balance
	// changes, and flips the original entry to REVERSED with reversal
	// linkage, all in one transaction.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, items []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal, original domain.JournalEntry) error

	// DeleteEntry removes a draft entry and all its items.
	DeleteEntry(ctx context.Context, entryID string) error
}

// EntryRepositoryFacade combines all journal entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
