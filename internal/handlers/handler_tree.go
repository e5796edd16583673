package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// treeHandler exposes the sponsor chain and binary tree views.
type treeHandler struct {
	treeService portssvc.TreeSvcFacade
}

func newTreeHandler(ts portssvc.TreeSvcFacade) *treeHandler {
	return &treeHandler{treeService: ts}
}

// registerTreeRoutes registers tree navigation routes under /members/:id.
func registerTreeRoutes(rg *gin.RouterGroup, treeService portssvc.TreeSvcFacade) {
	h := newTreeHandler(treeService)

	members := rg.Group("/members/:id")
	{
		members.GET("/upline", h.getUpline)
		members.GET("/tree", h.getTree)
		members.GET("/tree/stats", h.getTreeStats)
	}
}

// authorizeTreeAccess allows members to inspect their own tree and admins to
// inspect any tree.
func authorizeTreeAccess(c *gin.Context, targetID string) bool {
	memberID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return false
	}
	if targetID != memberID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return false
	}
	return true
}

func (h *treeHandler) getUpline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")
	if !authorizeTreeAccess(c, targetID) {
		return
	}

	chain, err := h.treeService.UplineChain(c.Request.Context(), targetID, 0)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to walk upline", slog.String("member_id", targetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve upline"})
		}
		return
	}

	type uplineEntry struct {
		Level      int    `json:"level"`
		MemberID   string `json:"memberID"`
		MemberCode string `json:"memberCode"`
		Name       string `json:"name"`
		IsActive   bool   `json:"isActive"`
	}
	entries := make([]uplineEntry, len(chain))
	for i, e := range chain {
		entries[i] = uplineEntry{
			Level:      e.Level,
			MemberID:   e.Member.MemberID,
			MemberCode: e.Member.MemberCode,
			Name:       e.Member.Name,
			IsActive:   e.Member.IsActive,
		}
	}
	c.JSON(http.StatusOK, gin.H{"upline": entries})
}

func (h *treeHandler) getTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")
	if !authorizeTreeAccess(c, targetID) {
		return
	}

	var params dto.TreeQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	tree, err := h.treeService.MaterializeTree(c.Request.Context(), targetID, params.MaxDepth)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to materialize tree", slog.String("member_id", targetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve tree"})
		}
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (h *treeHandler) getTreeStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")
	if !authorizeTreeAccess(c, targetID) {
		return
	}

	stats, err := h.treeService.TreeStats(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to compute tree stats", slog.String("member_id", targetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve tree stats"})
		}
		return
	}

	c.JSON(http.StatusOK, stats)
}
