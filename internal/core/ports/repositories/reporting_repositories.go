package repositories

import (
	"context"
	"time"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository provides the ledger aggregates backing financial reports.
type ReportingRepository interface {
	// GetAccountBalanceRows returns one row per active account of the given
	// types with opening balance and the posted debit/credit totals inside
	// the date bounds. Accounts with no activity in range still appear, with
	// zero debits and credits.
	GetAccountBalanceRows(ctx context.Context, types []domain.AccountType, startDate, endDate *time.Time) ([]domain.AccountBalanceRow, error)
}

// ReadModelRepository exposes the peripheral agency tables the report engine
// consumes. These tables are owned by other subsystems; access is read-only
// and every aggregate defaults to zero when no rows match.
type ReadModelRepository interface {
	// SumClientPayments totals client payments created in the range.
	SumClientPayments(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error)

	// SumApprovedExpenses totals approved expense claims dated in the range.
	SumApprovedExpenses(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error)

	// SumVendorBills totals non-cancelled vendor bills dated in the range.
	SumVendorBills(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error)

	// SumOutstandingVendorBills totals the remaining amounts of vendor bills
	// that are neither paid nor cancelled, as of the given date.
	SumOutstandingVendorBills(ctx context.Context, asOf time.Time) (decimal.Decimal, error)

	// SumVendorPayments totals vendor payments dated in the range.
	SumVendorPayments(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error)

	// SumActiveAssetValue totals the current value of active physical assets.
	SumActiveAssetValue(ctx context.Context, asOf time.Time) (decimal.Decimal, error)

	// SumAssetPurchases totals asset purchase costs dated in the range.
	SumAssetPurchases(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error)
}
