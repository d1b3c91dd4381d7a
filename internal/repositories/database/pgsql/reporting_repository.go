package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	portsrepo "github.com/agencydesk/agency_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetAccountBalanceRows returns one row per active account of the given types
// with its opening balance and posted debit/credit totals inside the date
// bounds. The join is a LEFT JOIN so accounts without activity still appear
// with zero totals.
func (r *reportingRepository) GetAccountBalanceRows(ctx context.Context, types []domain.AccountType, startDate, endDate *time.Time) ([]domain.AccountBalanceRow, error) {
	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}

	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			a.opening_balance,
			COALESCE(SUM(CASE WHEN e.entry_id IS NOT NULL AND i.item_type = 'DEBIT' THEN i.amount ELSE 0 END), 0) AS total_debits,
			COALESCE(SUM(CASE WHEN e.entry_id IS NOT NULL AND i.item_type = 'CREDIT' THEN i.amount ELSE 0 END), 0) AS total_credits
		FROM accounts a
		LEFT JOIN journal_entry_items i ON i.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = i.entry_id
			AND e.status IN ('POSTED', 'REVERSED')
	`
	args := []interface{}{typeStrings}
	if startDate != nil {
		args = append(args, *startDate)
		query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}
	query += `
		WHERE a.account_type = ANY($1) AND a.is_active = TRUE
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.opening_balance
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying account balance rows: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountBalanceRow{}
	for rows.Next() {
		var row domain.AccountBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.Code,
			&row.Name,
			&accountType,
			&row.OpeningBalance,
			&row.Debits,
			&row.Credits,
		); err != nil {
			return nil, fmt.Errorf("error scanning account balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account balance rows: %w", err)
	}

	return result, nil
}
