package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey stores the authenticated user's ID. The custom key type prevents
// collisions with values set by other packages.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID, checking the gin
// context first and falling back to the request context (handlers see the gin
// context; code handed a plain context.Context sees the request one).
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(userIDKey)); exists {
		userID, ok := val.(string)
		return userID, ok && userID != ""
	}
	return UserIDFromCtx(c.Request.Context())
}

// UserIDFromCtx retrieves the authenticated user ID from a plain context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
