package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/agencydesk/agency_backend/internal/core/ports/services"
	"github.com/agencydesk/agency_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/financial-reports")
	{
		reportingGroup.GET("/profit-loss", h.getProfitLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/cash-flow", h.getCashFlow)
	}
}

// currentMonthRange returns the first instant of the current calendar month
// and now, the default window for period reports.
func currentMonthRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, now
}

// parsePeriod resolves start_date/end_date query params, defaulting to the
// current calendar month.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	startDate, endDate := currentMonthRange()

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			logger.Warn("Invalid start_date format", slog.String("start_date", s))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid start_date format. Use YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		startDate = parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			logger.Warn("Invalid end_date format", slog.String("end_date", s))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid end_date format. Use YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		// Include the whole end day
		endDate = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	if endDate.Before(startDate) {
		logger.Warn("end_date precedes start_date")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "end_date must not precede start_date"})
		return time.Time{}, time.Time{}, false
	}

	return startDate, endDate, true
}

// getProfitLoss godoc
// @Summary Generate profit and loss report
// @Description Generates a P&L statement for the period, combining posted ledger activity with agency payment and billing records
// @Tags financial-reports
// @Produce json
// @Param start_date query string false "Period start (YYYY-MM-DD), defaults to start of current month"
// @Param end_date query string false "Period end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.ProfitLossReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Invalid dates"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /financial-reports/profit-loss [get]
func (h *reportingHandler) getProfitLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	startDate, endDate, ok := parsePeriod(c)
	if !ok {
		return
	}

	logger.Info("Received request to generate profit and loss report",
		slog.Time("start_date", startDate), slog.Time("end_date", endDate))

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), startDate, endDate)
	if err != nil {
		logger.Error("Failed to generate profit and loss report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Generates a balance sheet as of the given date, including physical assets, outstanding vendor bills, and retained earnings
// @Tags financial-reports
// @Produce json
// @Param as_of_date query string false "Report date (YYYY-MM-DD), defaults to now"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /financial-reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	if s := c.Query("as_of_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			logger.Warn("Invalid as_of_date format", slog.String("as_of_date", s))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid as_of_date format. Use YYYY-MM-DD"})
			return
		}
		asOf = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	logger.Info("Received request to generate balance sheet report", slog.Time("as_of_date", asOf))

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to generate balance sheet report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// getCashFlow godoc
// @Summary Generate cash flow report
// @Description Generates a cash flow statement for the period from agency payment records
// @Tags financial-reports
// @Produce json
// @Param start_date query string false "Period start (YYYY-MM-DD), defaults to start of current month"
// @Param end_date query string false "Period end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.CashFlowReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Invalid dates"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /financial-reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	startDate, endDate, ok := parsePeriod(c)
	if !ok {
		return
	}

	logger.Info("Received request to generate cash flow report",
		slog.Time("start_date", startDate), slog.Time("end_date", endDate))

	report, err := h.reportingService.CashFlow(c.Request.Context(), startDate, endDate)
	if err != nil {
		logger.Error("Failed to generate cash flow report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, report)
}
