package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-assignment-api/internal/constants"
	apierrors "github.com/yukikurage/task-assignment-api/internal/errors"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/policy"
	"github.com/yukikurage/task-assignment-api/internal/token"
)

// TokenVerifier turns a bearer token into the identity it was issued for
type TokenVerifier interface {
	Verify(tokenStr string) (token.Identity, error)
}

// RequireAuth checks if the request carries a valid bearer token
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			apierrors.Unauthorized(c, "Not authorized, no token")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
		if raw == "" {
			apierrors.Unauthorized(c, "Not authorized, no token")
			return
		}

		identity, err := verifier.Verify(raw)
		if err != nil {
			apierrors.Unauthorized(c, "Not authorized, token failed")
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, identity.UserID)
		c.Set(constants.ContextKeyRole, identity.Role)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}

// GetCaller retrieves the authenticated caller from context
func GetCaller(c *gin.Context) (policy.Caller, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return policy.Caller{}, false
	}
	role, ok := c.Get(constants.ContextKeyRole)
	if !ok {
		return policy.Caller{}, false
	}
	r, ok := role.(models.Role)
	if !ok || !r.Valid() {
		return policy.Caller{}, false
	}
	return policy.Caller{UserID: userID, Role: r}, true
}
