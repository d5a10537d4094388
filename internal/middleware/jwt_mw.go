package middleware

import (
	"context"
	"net/http"
	"strings"

	"identity_service/internal/model"
	"identity_service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const AuthUserKey = "authUser"

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

// JWTAuthMiddleware creates a middleware for JWT authentication. On success
// the request's model.Identity is stored under AuthUserKey.
func JWTAuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication token missing or malformed."})
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if service.KindOf(err) == service.KindUnauthorized {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
				return
			}
			logger.Error("authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
			return
		}

		c.Set(AuthUserKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity set by JWTAuthMiddleware.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, exists := c.Get(AuthUserKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}
