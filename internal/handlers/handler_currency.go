package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/dto"
	"github.com/gstbooks/gst_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests for exchange rates and conversion.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to exchange rates.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRate)
		rates.POST("/convert", h.convert)
	}
}

func (h *currencyHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.RateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query, expected from/to as 3-letter codes"})
		return
	}

	logger = logger.With(slog.String("from", query.From), slog.String("to", query.To))
	logger.Info("Received request to resolve exchange rate")

	resolution, err := h.currencyService.GetRate(c.Request.Context(), query.From, query.To)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnresolved) {
			logger.Warn("Exchange rate unresolved", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to resolve exchange rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve exchange rate"})
		return
	}

	c.JSON(http.StatusOK, dto.RateResponse{
		From:       query.From,
		To:         query.To,
		Rate:       resolution.Rate,
		Source:     string(resolution.Source),
		ResolvedAt: time.Now().UTC(),
	})
}

func (h *currencyHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	converted, resolution, err := h.currencyService.Convert(c.Request.Context(), req.Amount, req.From, req.To)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateUnresolved):
			logger.Warn("Exchange rate unresolved for conversion",
				slog.String("from", req.From), slog.String("to", req.To))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		Amount:    req.Amount,
		From:      req.From,
		To:        req.To,
		Converted: converted,
		Rate:      resolution.Rate,
		Source:    string(resolution.Source),
	})
}
