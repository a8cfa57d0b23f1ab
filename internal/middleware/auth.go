package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskcove/task-tracker-api/internal/constants"
	apierrors "github.com/taskcove/task-tracker-api/internal/errors"
)

// TokenResolver resolves a bearer token to a user ID.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (uint64, error)
}

// RequireAuth resolves the Authorization bearer token and stores the user ID
// in the context. Requests without a valid token never reach a handler.
func RequireAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		userID, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
