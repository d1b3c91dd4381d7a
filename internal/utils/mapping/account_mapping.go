package mapping

import (
	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/agencydesk/agency_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		SubType:         d.SubType,
		ParentAccountID: d.ParentAccountID,
		Description:     d.Description,
		OpeningBalance:  d.OpeningBalance,
		CurrentBalance:  d.CurrentBalance,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		SubType:         m.SubType,
		ParentAccountID: m.ParentAccountID,
		Description:     m.Description,
		OpeningBalance:  m.OpeningBalance,
		CurrentBalance:  m.CurrentBalance,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
