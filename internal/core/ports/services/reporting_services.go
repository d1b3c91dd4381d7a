package services

import (
	"context"
	"time"

	"github.com/agencydesk/agency_backend/internal/core/domain"
)

// ReportingService derives financial statements from posted ledger history
// and the peripheral agency read models. All reports are pure reads,
// recomputed per request.
type ReportingService interface {
	// ProfitAndLoss produces the P&L statement for the period.
	ProfitAndLoss(ctx context.Context, startDate, endDate time.Time) (*domain.ProfitLossReport, error)

	// BalanceSheet produces the balance sheet as of the given date.
	BalanceSheet(ctx context.Context, asOfDate time.Time) (*domain.BalanceSheetReport, error)

	// CashFlow produces the cash flow statement for the period.
	CashFlow(ctx context.Context, startDate, endDate time.Time) (*domain.CashFlowReport, error)
}

// ServiceContainer bundles the service interfaces handed to route registration.
type ServiceContainer struct {
	Account   AccountService
	Journal   JournalService
	Reporting ReportingService
}
