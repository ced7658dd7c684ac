package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/jwt"
	"servicehub/internal/pkg/response"
)

// UserSource resolves the account behind a token. The live account decides
// whether the token still authorizes: a ban or a token-version bump revokes
// it before the JWT expires.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth validates the Bearer token, checks it against the current account
// state and stores user_id and role on the context.
func Auth(jwtService *jwt.Service, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}
		if user.Banned || user.TokenVersion != claims.TokenVersion {
			response.Error(c, http.StatusUnauthorized, "SESSION_REVOKED", "Session revoked")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
