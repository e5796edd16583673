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

// memberHandler handles member profile and lifecycle requests.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: ms}
}

// registerMemberRoutes registers routes related to members.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	members := rg.Group("/members")
	{
		members.GET("/me", h.getOwnProfile)
		members.GET("/:id", h.getMemberByID)
		members.GET("/code/:code", h.getMemberByCode)
		members.PATCH("/:id/active", middleware.RequireAdmin(), h.setActive)
	}
}

func (h *memberHandler) getOwnProfile(c *gin.Context) {
	memberID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	h.respondWithMember(c, memberID)
}

// getMemberByID returns a member's profile. Members see themselves; admins see
// anyone.
func (h *memberHandler) getMemberByID(c *gin.Context) {
	targetID := c.Param("id")

	memberID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if targetID != memberID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}
	h.respondWithMember(c, targetID)
}

// getMemberByCode resolves a member code to a minimal profile. Any logged-in
// member may use it to verify a sponsor code before registration links are
// shared.
func (h *memberHandler) getMemberByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	member, err := h.memberService.GetMemberByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to get member by code", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve member"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"memberCode": member.MemberCode,
		"name":       member.Name,
		"isActive":   member.IsActive,
	})
}

func (h *memberHandler) setActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")

	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.memberService.SetActive(c.Request.Context(), targetID, *req.IsActive, actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to set member active flag", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update member"})
		}
		return
	}

	h.respondWithMember(c, targetID)
}

func (h *memberHandler) respondWithMember(c *gin.Context, memberID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to get member", slog.String("member_id", memberID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve member"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}
