package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"listcraft/internal/shared/logger"
	"listcraft/internal/shared/utils"
)

const UserIDKey = "user_id"

// IdentityMiddleware resolves the acting user. Authentication happens at
// the edge gateway, which forwards the verified account ID in X-User-ID;
// requests reaching this service without it are rejected.
type IdentityMiddleware struct {
	logger logger.Interface
}

func NewIdentityMiddleware(logger logger.Interface) *IdentityMiddleware {
	return &IdentityMiddleware{logger: logger}
}

func (m *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-User-ID")
		if header == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(header, 10, 32)
		if err != nil || userID == 0 {
			m.logger.Warnw("rejected malformed user identity header", "value", header)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid user identity")
			c.Abort()
			return
		}

		c.Set(UserIDKey, uint(userID))
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID set by RequireUser.
func UserIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
