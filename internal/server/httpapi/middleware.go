package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"messagewall/internal/common"
	"messagewall/internal/logging"
	"messagewall/internal/server/auth"
)

const userIDKey = "userID"

// RequireAuth validates the bearer access token and stores the caller's
// record id on the request context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthHeaderName)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// MustUserID returns the record id RequireAuth stored for this request.
func MustUserID(c *gin.Context) string {
	v, _ := c.Get(userIDKey)
	id, _ := v.(string)
	return id
}

// RequestLogger logs one line per request through the application logger.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
