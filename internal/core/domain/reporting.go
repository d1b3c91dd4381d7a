package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalanceRow is the raw ledger aggregate for one account: its opening
// balance plus total posted debits and credits over the queried range.
type AccountBalanceRow struct {
	AccountID      string
	Code           string
	Name           string
	AccountType    AccountType
	OpeningBalance decimal.Decimal
	Debits         decimal.Decimal
	Credits        decimal.Decimal
}

// AccountAmount represents an account with its resolved balance for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitLossReport represents a profit and loss statement for a period.
type ProfitLossReport struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Revenue        []AccountAmount `json:"revenue"`
	Expenses       []AccountAmount `json:"expenses"`
	ClientPayments decimal.Decimal `json:"clientPayments"`   // Payments received outside the ledger
	ApprovedCosts  decimal.Decimal `json:"approvedExpenses"` // Approved expense claims
	VendorBills    decimal.Decimal `json:"vendorBills"`      // Non-cancelled vendor bills

	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	GrossProfit   decimal.Decimal `json:"grossProfit"`
	NetProfit     decimal.Decimal `json:"netProfit"` // Equal to GrossProfit; no tax/COGS distinction modeled
}

// BalanceSheetReport represents a balance sheet as of a specific date.
type BalanceSheetReport struct {
	AsOfDate time.Time `json:"asOfDate"`

	Assets      []AccountAmount `json:"assets"`
	Liabilities []AccountAmount `json:"liabilities"`
	Equity      []AccountAmount `json:"equity"`

	PhysicalAssets            decimal.Decimal `json:"physicalAssets"`   // Active fixed assets outside the ledger
	OutstandingBills          decimal.Decimal `json:"outstandingBills"` // Unpaid vendor bill remainders
	RetainedEarnings          decimal.Decimal `json:"retainedEarnings"` // Accumulated net income through AsOfDate
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal `json:"totalEquity"` // Includes retained earnings
	Imbalance                 decimal.Decimal `json:"imbalance"`   // Assets - liabilities - equity; nonzero means the books don't balance
	ImbalanceExceedsTolerance bool            `json:"imbalanceExceedsTolerance"`
}

// CashFlowReport represents a cash flow statement for a period.
type CashFlowReport struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	ClientPaymentsReceived decimal.Decimal `json:"clientPaymentsReceived"`
	VendorPaymentsMade     decimal.Decimal `json:"vendorPaymentsMade"`
	ExpensesPaid           decimal.Decimal `json:"expensesPaid"`
	AssetPurchases         decimal.Decimal `json:"assetPurchases"`

	OperatingCashFlow decimal.Decimal `json:"operatingCashFlow"`
	InvestingCashFlow decimal.Decimal `json:"investingCashFlow"`
	FinancingCashFlow decimal.Decimal `json:"financingCashFlow"` // Unmodeled, always zero
	NetCashFlow       decimal.Decimal `json:"netCashFlow"`
}
