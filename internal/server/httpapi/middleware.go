package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelkers/carwash/internal/logging"
	"github.com/avelkers/carwash/internal/server/auth"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Authenticate validates the access token from the Authorization header and
// stores the subject and role claims in the request context. The role is the
// snapshot embedded at issuance; it is not re-read from the database here.
func Authenticate(codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Missing access token"})
			return
		}

		claims, err := codec.Decode(token)
		if err != nil || claims.TokenType != auth.TypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequestLogger logs one line per request with method, path, status, and
// duration.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
