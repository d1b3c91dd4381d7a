package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agencydesk/agency_backend/internal/core/domain"
	portsrepo "github.com/agencydesk/agency_backend/internal/core/ports/repositories"
	portssvc "github.com/agencydesk/agency_backend/internal/core/ports/services"
	"github.com/agencydesk/agency_backend/internal/middleware"
	"github.com/agencydesk/agency_backend/internal/utils/accounting"
)

// reportingService derives financial statements from posted ledger history
// and the peripheral agency read models.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	readModels    portsrepo.ReadModelRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, readModels portsrepo.ReadModelRepository) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		readModels:    readModels,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// ProfitAndLoss produces the P&L statement for the period. Ledger revenue and
// expense balances are resolved per account; client payments, approved
// expense claims and vendor bills from outside the ledger are folded into the
// totals.
func (s *reportingService) ProfitAndLoss(ctx context.Context, startDate, endDate time.Time) (*domain.ProfitLossReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetAccountBalanceRows(ctx, []domain.AccountType{domain.Revenue, domain.Expense}, &startDate, &endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	report := &domain.ProfitLossReport{
		StartDate: startDate,
		EndDate:   endDate,
		Revenue:   []domain.AccountAmount{},
		Expenses:  []domain.AccountAmount{},
	}

	ledgerRevenue := decimal.Zero
	ledgerExpenses := decimal.Zero
	for _, row := range rows {
		balance, err := accounting.ResolveBalance(row.AccountType, row.OpeningBalance, row.Debits, row.Credits)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve balance for account %s: %w", row.AccountID, err)
		}
		amount := domain.AccountAmount{AccountID: row.AccountID, Code: row.Code, Name: row.Name, Amount: balance}
		switch row.AccountType {
		case domain.Revenue:
			report.Revenue = append(report.Revenue, amount)
			ledgerRevenue = ledgerRevenue.Add(balance)
		case domain.Expense:
			report.Expenses = append(report.Expenses, amount)
			ledgerExpenses = ledgerExpenses.Add(balance)
		}
	}

	if report.ClientPayments, err = s.readModels.SumClientPayments(ctx, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to sum client payments: %w", err)
	}
	if report.ApprovedCosts, err = s.readModels.SumApprovedExpenses(ctx, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to sum approved expenses: %w", err)
	}
	if report.VendorBills, err = s.readModels.SumVendorBills(ctx, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to sum vendor bills: %w", err)
	}

	report.TotalRevenue = ledgerRevenue.Add(report.ClientPayments)
	report.TotalExpenses = ledgerExpenses.Add(report.ApprovedCosts).Add(report.VendorBills)
	report.GrossProfit = report.TotalRevenue.Sub(report.TotalExpenses)
	report.NetProfit = report.GrossProfit

	logger.Info("Profit and loss report generated",
		slog.String("from", startDate.Format(time.RFC3339)),
		slog.String("to", endDate.Format(time.RFC3339)),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// BalanceSheet produces the balance sheet as of the given date. Retained
// earnings are computed independently as accumulated net income through the
// as-of date; any residual imbalance is surfaced on the report rather than
// plugged into equity.
func (s *reportingService) BalanceSheet(ctx context.Context, asOfDate time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetAccountBalanceRows(ctx, []domain.AccountType{domain.Asset, domain.Liability, domain.Equity}, nil, &asOfDate)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOfDate:    asOfDate,
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}

	ledgerAssets := decimal.Zero
	ledgerLiabilities := decimal.Zero
	ledgerEquity := decimal.Zero
	for _, row := range rows {
		balance, err := accounting.ResolveBalance(row.AccountType, row.OpeningBalance, row.Debits, row.Credits)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve balance for account %s: %w", row.AccountID, err)
		}
		amount := domain.AccountAmount{AccountID: row.AccountID, Code: row.Code, Name: row.Name, Amount: balance}
		switch row.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			ledgerAssets = ledgerAssets.Add(balance)
		case domain.Liability:
			amount.Amount = balance.Abs()
			report.Liabilities = append(report.Liabilities, amount)
			ledgerLiabilities = ledgerLiabilities.Add(balance.Abs())
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			ledgerEquity = ledgerEquity.Add(balance)
		}
	}

	if report.PhysicalAssets, err = s.readModels.SumActiveAssetValue(ctx, asOfDate); err != nil {
		return nil, fmt.Errorf("failed to sum physical assets: %w", err)
	}
	if report.OutstandingBills, err = s.readModels.SumOutstandingVendorBills(ctx, asOfDate); err != nil {
		return nil, fmt.Errorf("failed to sum outstanding vendor bills: %w", err)
	}

	retained, err := s.accumulatedNetIncome(ctx, asOfDate)
	if err != nil {
		return nil, err
	}
	report.RetainedEarnings = retained

	report.TotalAssets = ledgerAssets.Add(report.PhysicalAssets)
	report.TotalLiabilities = ledgerLiabilities.Add(report.OutstandingBills)
	report.TotalEquity = ledgerEquity.Add(retained)
	report.Imbalance = report.TotalAssets.Sub(report.TotalLiabilities).Sub(report.TotalEquity)
	report.ImbalanceExceedsTolerance = report.Imbalance.Abs().GreaterThan(accounting.BalanceTolerance)

	if report.ImbalanceExceedsTolerance {
		logger.Warn("Balance sheet does not balance",
			slog.String("as_of", asOfDate.Format(time.RFC3339)),
			slog.String("imbalance", report.Imbalance.String()))
	}

	logger.Info("Balance sheet report generated",
		slog.String("as_of", asOfDate.Format(time.RFC3339)),
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	return report, nil
}

// CashFlow produces the cash flow statement for the period from the agency
// read models. Financing activity is unmodeled and reported as zero.
func (s *reportingService) CashFlow(ctx context.Context, startDate, endDate time.Time) (*domain.CashFlowReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report := &domain.CashFlowReport{
		StartDate:         startDate,
		EndDate:           endDate,
		FinancingCashFlow: decimal.Zero,
	}

	var err error
	if report.ClientPaymentsReceived, err = s.readModels.SumClientPayments(ctx, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to sum client payments: %w", err)
	}
	if report.VendorPaymentsMade, err = s.readModels.SumVendorPayments(ctx, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to sum vendor payments: %w", err)
	}
	if report.ExpensesPaid, err = s.readModels.SumApprovedExpenses(ctx, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to sum approved expenses: %w", err)
	}
	if report.AssetPurchases, err = s.readModels.SumAssetPurchases(ctx, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to sum asset purchases: %w", err)
	}

	report.OperatingCashFlow = report.ClientPaymentsReceived.Sub(report.VendorPaymentsMade).Sub(report.ExpensesPaid)
	report.InvestingCashFlow = report.AssetPurchases.Neg()
	report.NetCashFlow = report.OperatingCashFlow.Add(report.InvestingCashFlow).Add(report.FinancingCashFlow)

	logger.Info("Cash flow report generated",
		slog.String("from", startDate.Format(time.RFC3339)),
		slog.String("to", endDate.Format(time.RFC3339)))
	return report, nil
}

// accumulatedNetIncome computes retained earnings through the as-of date:
// total revenue balances minus total expense balances across all posted
// history. Kept independent of the balance sheet's equity side so a true
// imbalance stays visible.
func (s *reportingService) accumulatedNetIncome(ctx context.Context, asOfDate time.Time) (decimal.Decimal, error) {
	rows, err := s.reportingRepo.GetAccountBalanceRows(ctx, []domain.AccountType{domain.Revenue, domain.Expense}, nil, &asOfDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to retrieve retained earnings data: %w", err)
	}

	income := decimal.Zero
	for _, row := range rows {
		balance, err := accounting.ResolveBalance(row.AccountType, row.OpeningBalance, row.Debits, row.Credits)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to resolve balance for account %s: %w", row.AccountID, err)
		}
		switch row.AccountType {
		case domain.Revenue:
			income = income.Add(balance)
		case domain.Expense:
			income = income.Sub(balance)
		}
	}
	return income, nil
}
