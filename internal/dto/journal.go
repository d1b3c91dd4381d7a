package dto

import (
	"time"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryItemRequest defines one debit/credit line of an entry being created.
type CreateEntryItemRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	ItemType    domain.ItemType `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest defines the data needed to create a draft entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                `json:"entryDate" binding:"required"`
	Description string                   `json:"description"`
	Reference   string                   `json:"reference"`
	Items       []CreateEntryItemRequest `json:"items" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest defines the data allowed for updating a draft entry.
// A nil Items leaves the existing item set untouched; a non-nil Items replaces
// it wholesale after re-validating the balance invariant.
type UpdateJournalEntryRequest struct {
	EntryDate   *time.Time               `json:"entryDate"`
	Description *string                  `json:"description"`
	Reference   *string                  `json:"reference"`
	Items       []CreateEntryItemRequest `json:"items"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Status    *string `form:"status"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"next_token"`
}

// EntryItemResponse defines the data returned for a line item.
type EntryItemResponse struct {
	ItemID      string          `json:"itemID"`
	AccountID   string          `json:"accountID"`
	ItemType    domain.ItemType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string              `json:"entryID"`
	EntryNo          string              `json:"entryNo"`
	EntryDate        time.Time           `json:"entryDate"`
	Status           domain.EntryStatus  `json:"status"`
	Description      string              `json:"description"`
	Reference        string              `json:"reference"`
	PostedBy         *string             `json:"postedBy,omitempty"`
	PostedAt         *time.Time          `json:"postedAt,omitempty"`
	OriginalEntryID  *string             `json:"originalEntryID,omitempty"`
	ReversingEntryID *string             `json:"reversingEntryID,omitempty"`
	Items            []EntryItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	CreatedBy        string              `json:"createdBy"`
}

// ListJournalEntriesResponse wraps a page of entries with the pagination token.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToEntryItemResponse converts a domain item to its DTO.
func ToEntryItemResponse(item *domain.JournalEntryItem) EntryItemResponse {
	return EntryItemResponse{
		ItemID:      item.ItemID,
		AccountID:   item.AccountID,
		ItemType:    item.ItemType,
		Amount:      item.Amount,
		Description: item.Description,
	}
}

// ToJournalEntryResponse converts a domain entry (with any loaded items) to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryNo:          e.EntryNo,
		EntryDate:        e.EntryDate,
		Status:           e.Status,
		Description:      e.Description,
		Reference:        e.Reference,
		PostedBy:         e.PostedBy,
		PostedAt:         e.PostedAt,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Items) > 0 {
		resp.Items = make([]EntryItemResponse, len(e.Items))
		for i := range e.Items {
			resp.Items[i] = ToEntryItemResponse(&e.Items[i])
		}
	}
	return resp
}
