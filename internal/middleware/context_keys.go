package middleware

import "github.com/gin-gonic/gin"

// contextKey is a private type for context keys set by the middleware stack.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	isStaffKey   = contextKey("isStaff")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if v := c.Request.Context().Value(userIDKey); v != nil {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetIsStaffFromContext retrieves the caller's staff capability flag.
// A missing flag is treated as non-staff.
func GetIsStaffFromContext(c *gin.Context) bool {
	if v, exists := c.Get(string(isStaffKey)); exists {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	if v := c.Request.Context().Value(isStaffKey); v != nil {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
