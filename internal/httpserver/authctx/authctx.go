// Package authctx carries the authenticated identity through the gin context.
// The auth middleware writes it; handlers read it.
package authctx

import "github.com/gin-gonic/gin"

const (
	userIDKey = "auth_user_id"
	roleKey   = "auth_role"
)

func Set(c *gin.Context, userID int, role string) {
	c.Set(userIDKey, userID)
	c.Set(roleKey, role)
}

func UserID(c *gin.Context) int {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

func Role(c *gin.Context) string {
	if v, ok := c.Get(roleKey); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
