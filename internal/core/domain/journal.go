package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// ItemType indicates whether a line item is a debit or a credit.
type ItemType string

const (
	Debit  ItemType = "DEBIT"
	Credit ItemType = "CREDIT"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple line items. Entries start as drafts; posting applies the items to
// account balances and locks the entry against further edits.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`   // Primary key (UUID)
	EntryNo     string      `json:"entryNo"`   // Generated unique reference, "JE-" prefixed
	EntryDate   time.Time   `json:"entryDate"` // Date the event occurred
	Status      EntryStatus `json:"status"`    // DRAFT -> POSTED -> REVERSED
	Description string      `json:"description"`
	Reference   string      `json:"reference"` // Free-text external reference

	PostedBy *string    `json:"postedBy,omitempty"` // Set exactly once, at the post transition
	PostedAt *time.Time `json:"postedAt,omitempty"`

	// Reversal linkage. OriginalEntryID is set on the counter-entry,
	// ReversingEntryID on the entry that was reversed.
	OriginalEntryID  *string `json:"originalEntryID,omitempty"`
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`

	Items []JournalEntryItem `json:"items,omitempty"` // Often loaded separately
	AuditFields
}

// IsEditable reports whether the entry's items and header fields may still change.
func (e *JournalEntry) IsEditable() bool {
	return e.Status == Draft
}

// JournalEntryItem represents a single debit or credit line within an entry,
// affecting one account.
type JournalEntryItem struct {
	ItemID      string          `json:"itemID"`    // Primary key (UUID)
	EntryID     string          `json:"entryID"`   // FK -> journal_entries.entry_id
	AccountID   string          `json:"accountID"` // FK -> accounts.account_id
	ItemType    ItemType        `json:"itemType"`  // DEBIT or CREDIT
	Amount      decimal.Decimal `json:"amount"`    // Positive value
	Description string          `json:"description"`
	AuditFields
}
