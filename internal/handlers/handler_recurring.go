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

// recurringHandler handles HTTP requests for recurring invoice templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{
		recurringService: rs,
	}
}

// registerRecurringRoutes registers routes related to recurring templates.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	templates := rg.Group("/recurring-templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:template_id", h.getTemplateByID)
		templates.POST("/run", h.runDueTemplates)
	}
}

func (h *recurringHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := actorFromContext(c)
	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create recurring template", slog.String("name", req.Name))

	tmpl, err := h.recurringService.CreateTemplate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating template", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create template", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		}
		return
	}

	logger.Info("Recurring template created", slog.String("template_id", tmpl.TemplateID))
	c.JSON(http.StatusCreated, dto.NewTemplateResponse(tmpl))
}

func (h *recurringHandler) getTemplateByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	tmpl, err := h.recurringService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			logger.Error("Failed to get template", slog.String("template_id", templateID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewTemplateResponse(tmpl))
}

func (h *recurringHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := paginationParams(c)

	templates, err := h.recurringService.ListTemplates(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}

	responses := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, dto.NewTemplateResponse(&templates[i]))
	}
	c.JSON(http.StatusOK, gin.H{"templates": responses})
}

// runDueTemplates triggers a scheduling pass over all due templates. The same
// pass runs from the scheduler binary; exposing it over HTTP supports manual
// catch-up runs.
func (h *recurringHandler) runDueTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to run due recurring templates")

	report, err := h.recurringService.RunDueTemplates(c.Request.Context(), time.Now().UTC())
	if err != nil {
		logger.Error("Recurring run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run due templates"})
		return
	}

	logger.Info("Recurring run finished",
		slog.Int("generated", len(report.Generated)),
		slog.Int("failed", len(report.Failed)),
	)
	c.JSON(http.StatusOK, report)
}
