package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/repository"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// SessionResolver resolves a bearer token to a live admin session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.AdminSession, error)
}

// RequireSession validates the Authorization header against the session
// registry and attaches the admin identity to the request context.
func RequireSession(sessions SessionResolver, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		session, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "session expired or invalid"))
				return
			}
			log.Error("failed to resolve session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "authentication failed"))
			return
		}

		c.Set(AdminIDKey, session.AdminID)
		c.Set(AdminUsernameKey, session.Username)
		c.Set(BearerTokenKey, token)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.AdminID = session.AdminID
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

// GetAuthenticatedAdmin retrieves the admin identity from context (helper for handlers)
func GetAuthenticatedAdmin(c *gin.Context) (domain.Identity, bool) {
	idVal, exists := c.Get(AdminIDKey)
	if !exists {
		return domain.Identity{}, false
	}

	id, ok := idVal.(string)
	if !ok || id == "" {
		return domain.Identity{}, false
	}

	username, _ := c.Get(AdminUsernameKey)
	name, _ := username.(string)

	return domain.Identity{ID: id, Username: name}, true
}

// GetBearerToken retrieves the raw session token consumed by the auth
// middleware, when one was present.
func GetBearerToken(c *gin.Context) string {
	if val, exists := c.Get(BearerTokenKey); exists {
		if token, ok := val.(string); ok {
			return token
		}
	}

	token, _ := bearerToken(c)
	return token
}
