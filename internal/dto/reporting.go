package dto

// ProfitLossParams defines query parameters for the profit and loss report.
// Missing dates default to the current calendar month.
type ProfitLossParams struct {
	StartDate *string `form:"start_date"`
	EndDate   *string `form:"end_date"`
}

// BalanceSheetParams defines query parameters for the balance sheet report.
// A missing as-of date defaults to now.
type BalanceSheetParams struct {
	AsOfDate *string `form:"as_of_date"`
}

// CashFlowParams defines query parameters for the cash flow report.
// Missing dates default to the current calendar month.
type CashFlowParams struct {
	StartDate *string `form:"start_date"`
	EndDate   *string `form:"end_date"`
}
