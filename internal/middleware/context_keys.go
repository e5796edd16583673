package middleware

import (
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// memberIDKey is the key used to store the authenticated member's ID in the
// request context. Using a custom type prevents collisions.
const memberIDKey = contextKey("memberID")

// roleKey is the key used to store the authenticated member's role.
const roleKey = contextKey("role")

// GetMemberIDFromContext retrieves the authenticated member ID from the Gin context.
// It returns the member ID and a boolean indicating if it was found.
func GetMemberIDFromContext(c *gin.Context) (string, bool) {
	memberIDVal := c.Request.Context().Value(memberIDKey)
	if memberIDVal == nil {
		return "", false
	}
	memberID, ok := memberIDVal.(string)
	if !ok {
		return "", false
	}
	return memberID, true
}

// GetRoleFromContext retrieves the authenticated member's role from the Gin context.
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	roleVal := c.Request.Context().Value(roleKey)
	if roleVal == nil {
		return "", false
	}
	role, ok := roleVal.(domain.Role)
	if !ok {
		return "", false
	}
	return role, true
}

// IsAdmin reports whether the authenticated member holds the admin role.
func IsAdmin(c *gin.Context) bool {
	role, ok := GetRoleFromContext(c)
	return ok && role == domain.RoleAdmin
}
