package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// requestHandler drives the pending request workflows.
type requestHandler struct {
	requestService portssvc.RequestSvcFacade
}

func newRequestHandler(rs portssvc.RequestSvcFacade) *requestHandler {
	return &requestHandler{requestService: rs}
}

// registerRequestRoutes registers the request routes. Creation and own-history
// are member-facing; the queue and both decisions are admin-only.
func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade) {
	h := newRequestHandler(requestService)

	requests := rg.Group("/requests")
	{
		requests.POST("", h.createRequest)
		requests.GET("/mine", h.listOwnRequests)
		requests.GET("", middleware.RequireAdmin(), h.listRequestsByStatus)
		requests.POST("/:id/approve", middleware.RequireAdmin(), h.approveRequest)
		requests.POST("/:id/reject", middleware.RequireAdmin(), h.rejectRequest)
	}
}

func (h *requestHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	memberID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), memberID, req.Kind, req.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create request", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create request"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequestResponse(request))
}

func (h *requestHandler) listOwnRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	memberID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	requests, err := h.requestService.ListRequestsByMember(c.Request.Context(), memberID, params)
	if err != nil {
		logger.Error("Failed to list own requests", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, toListRequestsResponse(requests))
}

// listRequestsByStatus serves the admin approval queue, PENDING by default.
func (h *requestHandler) listRequestsByStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := domain.RequestStatus(c.DefaultQuery("status", string(domain.RequestPending)))
	switch status {
	case domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status"})
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	requests, err := h.requestService.ListRequestsByStatus(c.Request.Context(), status, params)
	if err != nil {
		logger.Error("Failed to list requests by status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, toListRequestsResponse(requests))
}

func (h *requestHandler) approveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	actorID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.requestService.ApproveRequest(c.Request.Context(), requestID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Request not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to approve request", slog.String("request_id", requestID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to approve request"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

func (h *requestHandler) rejectRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	var req dto.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.requestService.RejectRequest(c.Request.Context(), requestID, req.Reason, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Request not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to reject request", slog.String("request_id", requestID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to reject request"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

func toListRequestsResponse(requests []domain.PendingRequest) dto.ListRequestsResponse {
	resp := dto.ListRequestsResponse{Requests: make([]dto.RequestResponse, len(requests))}
	for i := range requests {
		resp.Requests[i] = dto.ToRequestResponse(&requests[i])
	}
	return resp
}
