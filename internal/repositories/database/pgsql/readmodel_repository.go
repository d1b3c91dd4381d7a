package pgsql

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/agencydesk/agency_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// readModelRepository reads the peripheral agency tables the report engine
// consumes. These tables are written by other subsystems; everything here is
// a read-only aggregate defaulting to zero.
type readModelRepository struct {
	BaseRepository
}

// newReadModelRepository creates a new read model repository
func newReadModelRepository(db *pgxpool.Pool) portsrepo.ReadModelRepository {
	return &readModelRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

func (r *readModelRepository) sumOne(ctx context.Context, label, query string, args ...interface{}) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("error summing %s: %w", label, err)
	}
	return total, nil
}

// SumClientPayments totals client payments dated in the range.
func (r *readModelRepository) SumClientPayments(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM client_payments
		WHERE payment_date BETWEEN $1 AND $2;
	`
	return r.sumOne(ctx, "client payments", query, startDate, endDate)
}

// SumApprovedExpenses totals approved expense claims dated in the range.
func (r *readModelRepository) SumApprovedExpenses(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE status = 'APPROVED' AND expense_date BETWEEN $1 AND $2;
	`
	return r.sumOne(ctx, "approved expenses", query, startDate, endDate)
}

// SumVendorBills totals non-cancelled vendor bills dated in the range.
func (r *readModelRepository) SumVendorBills(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM vendor_bills
		WHERE status != 'CANCELLED' AND bill_date BETWEEN $1 AND $2;
	`
	return r.sumOne(ctx, "vendor bills", query, startDate, endDate)
}

// SumOutstandingVendorBills totals the remaining amounts of vendor bills that
// are neither paid nor cancelled, as of the given date.
func (r *readModelRepository) SumOutstandingVendorBills(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount - paid_amount), 0)
		FROM vendor_bills
		WHERE status NOT IN ('PAID', 'CANCELLED') AND bill_date <= $1;
	`
	return r.sumOne(ctx, "outstanding vendor bills", query, asOf)
}

// SumVendorPayments totals vendor payments dated in the range.
func (r *readModelRepository) SumVendorPayments(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM vendor_payments
		WHERE payment_date BETWEEN $1 AND $2;
	`
	return r.sumOne(ctx, "vendor payments", query, startDate, endDate)
}

// SumActiveAssetValue totals the current value of active physical assets.
func (r *readModelRepository) SumActiveAssetValue(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(current_value), 0)
		FROM physical_assets
		WHERE status = 'ACTIVE' AND purchase_date <= $1;
	`
	return r.sumOne(ctx, "active asset value", query, asOf)
}

// SumAssetPurchases totals asset purchase costs dated in the range.
func (r *readModelRepository) SumAssetPurchases(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(purchase_cost), 0)
		FROM physical_assets
		WHERE purchase_date BETWEEN $1 AND $2;
	`
	return r.sumOne(ctx, "asset purchases", query, startDate, endDate)
}
