package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
// It is fixed at creation and drives the balance sign convention.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five enumerated account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a node in the chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary key (UUID)
	Code            string          `json:"code"`            // Human-assigned unique code, e.g. "1000"
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	SubType         string          `json:"subType"`         // Finer classification, informational only
	ParentAccountID string          `json:"parentAccountID"` // Nullable FK -> accounts.account_id (weak reference, no cascade)
	Description     string          `json:"description"`     // Nullable user description
	OpeningBalance  decimal.Decimal `json:"openingBalance"`  // Immutable baseline set at creation
	CurrentBalance  decimal.Decimal `json:"currentBalance"`  // Mutated only by posting, via atomic increments
	IsActive        bool            `json:"isActive"`        // Soft-disable flag; inactive accounts excluded from reports
	AuditFields
}
