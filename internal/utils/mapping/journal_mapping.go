package mapping

import (
	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/agencydesk/agency_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		EntryNo:          d.EntryNo,
		EntryDate:        d.EntryDate,
		Status:           models.EntryStatus(d.Status),
		Description:      d.Description,
		Reference:        d.Reference,
		PostedBy:         d.PostedBy,
		PostedAt:         d.PostedAt,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		EntryNo:          m.EntryNo,
		EntryDate:        m.EntryDate,
		Status:           domain.EntryStatus(m.Status),
		Description:      m.Description,
		Reference:        m.Reference,
		PostedBy:         m.PostedBy,
		PostedAt:         m.PostedAt,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryItem converts a domain item to a model item.
func ToModelJournalEntryItem(d domain.JournalEntryItem) models.JournalEntryItem {
	return models.JournalEntryItem{
		ItemID:      d.ItemID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		ItemType:    models.ItemType(d.ItemType),
		Amount:      d.Amount,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntryItem converts a model item to a domain item.
func ToDomainJournalEntryItem(m models.JournalEntryItem) domain.JournalEntryItem {
	return domain.JournalEntryItem{
		ItemID:      m.ItemID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		ItemType:    domain.ItemType(m.ItemType),
		Amount:      m.Amount,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntryItemSlice converts a slice of model items to domain items.
func ToDomainJournalEntryItemSlice(ms []models.JournalEntryItem) []domain.JournalEntryItem {
	ds := make([]domain.JournalEntryItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryItem(m)
	}
	return ds
}
