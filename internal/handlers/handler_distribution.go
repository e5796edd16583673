package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// distributionHandler triggers and reports the monthly distribution batch.
type distributionHandler struct {
	distributionService portssvc.DistributionSvcFacade
}

func newDistributionHandler(ds portssvc.DistributionSvcFacade) *distributionHandler {
	return &distributionHandler{distributionService: ds}
}

// registerDistributionRoutes registers admin-only distribution routes.
func registerDistributionRoutes(rg *gin.RouterGroup, distributionService portssvc.DistributionSvcFacade) {
	h := newDistributionHandler(distributionService)

	distributions := rg.Group("/distributions", middleware.RequireAdmin())
	{
		distributions.POST("/run", h.runDistribution)
		distributions.GET("/last", h.getLastReport)
	}
}

// runDistribution kicks off the batch for the requested period, defaulting to
// the current UTC month. Safe to call repeatedly for the same period.
func (h *distributionHandler) runDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// The body is optional; an empty POST runs the current month.
	var req dto.RunDistributionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for RunDistribution", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}

	period := req.Period
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	}

	actorID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.distributionService.RunDistribution(c.Request.Context(), period, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Distribution run failed", slog.String("period", period), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Distribution run failed"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// getLastReport returns the report of the most recent run in this process.
func (h *distributionHandler) getLastReport(c *gin.Context) {
	report, err := h.distributionService.LastReport(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No distribution has run yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve report"})
		return
	}
	c.JSON(http.StatusOK, report)
}
