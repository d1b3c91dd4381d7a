package accounting

import (
	"fmt"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed difference between total debits and
// total credits of a journal entry, in currency units.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// SignedAmount applies the correct sign to a line item amount based on account
// type and item type. This single function backs both the stored balance
// updates at post time and the recomputed balances in reports, so the two can
// never disagree.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(item domain.JournalEntryItem, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := item.Amount
	isDebit := item.ItemType == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, item.AccountID)
	}
	return signedAmount, nil
}

// SumDebitsAndCredits totals the debit and credit sides of an item set.
func SumDebitsAndCredits(items []domain.JournalEntryItem) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, item := range items {
		if item.ItemType == domain.Debit {
			debits = debits.Add(item.Amount)
		} else {
			credits = credits.Add(item.Amount)
		}
	}
	return debits, credits
}

// ValidateEntryBalance checks the double-entry invariant over an item set:
// at least two items, every amount strictly positive, and total debits equal
// to total credits within BalanceTolerance.
func ValidateEntryBalance(items []domain.JournalEntryItem) error {
	if len(items) < 2 {
		return fmt.Errorf("journal entry must have at least two line items, got %d", len(items))
	}

	for _, item := range items {
		if item.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("line item amount must be positive for account %s", item.AccountID)
		}
		if item.ItemType != domain.Debit && item.ItemType != domain.Credit {
			return fmt.Errorf("unknown item type '%s' for account %s", item.ItemType, item.AccountID)
		}
	}

	debits, credits := SumDebitsAndCredits(items)
	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return fmt.Errorf("journal entry does not balance: debits sum is %s and credits sum is %s", debits.String(), credits.String())
	}

	return nil
}

// ResolveBalance computes an account's balance from its opening balance and
// the total posted debits/credits, honoring the balance sign convention:
// asset and expense accounts grow with debits, the rest grow with credits.
func ResolveBalance(accountType domain.AccountType, opening, debits, credits decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return opening.Add(debits).Sub(credits), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return opening.Add(credits).Sub(debits), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}
