package models

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

// JournalEntry is the persistence representation of a journal entry header.
type JournalEntry struct {
	EntryID          string      `json:"entryID"`
	EntryNo          string      `json:"entryNo"`
	EntryDate        time.Time   `json:"entryDate"`
	Status           EntryStatus `json:"status"`
	Description      string      `json:"description"`
	Reference        string      `json:"reference"`
	PostedBy         *string     `json:"postedBy"`
	PostedAt         *time.Time  `json:"postedAt"`
	OriginalEntryID  *string     `json:"originalEntryID"`
	ReversingEntryID *string     `json:"reversingEntryID"`
	AuditFields
}

// JournalEntryItem is the persistence representation of one debit/credit line.
type JournalEntryItem struct {
	ItemID      string          `json:"itemID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	ItemType    ItemType        `json:"itemType"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	AuditFields
}
