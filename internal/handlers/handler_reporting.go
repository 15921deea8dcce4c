package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/dto"
	"github.com/gstbooks/gst_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for financial statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial statements.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/cash-flow", h.getCashFlow)
	}
}

func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, expected from/to as YYYY-MM-DD"})
		return
	}
	if query.To.Before(query.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Period end before start"})
		return
	}

	period := domain.FinancialPeriod{StartDate: query.From, EndDate: query.To}
	logger.Info("Received request for profit and loss",
		slog.Time("from", period.StartDate), slog.Time("to", period.EndDate))

	statement, err := h.reportingService.ProfitAndLoss(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, apperrors.ErrConfiguration) {
			logger.Error("Statement configuration error", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build profit and loss", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, statement)
}

func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.AsOfQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
		return
	}

	logger.Info("Received request for balance sheet", slog.Time("as_of", query.AsOf))

	statement, err := h.reportingService.BalanceSheet(c.Request.Context(), query.AsOf)
	if err != nil {
		logger.Error("Failed to build balance sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, statement)
}

func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, expected from/to as YYYY-MM-DD"})
		return
	}
	if query.To.Before(query.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Period end before start"})
		return
	}

	period := domain.FinancialPeriod{StartDate: query.From, EndDate: query.To}
	logger.Info("Received request for cash flow",
		slog.Time("from", period.StartDate), slog.Time("to", period.EndDate))

	statement, err := h.reportingService.CashFlow(c.Request.Context(), period)
	if err != nil {
		logger.Error("Failed to build cash flow", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, statement)
}
