package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/infrastructure/auth"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils"
)

// OperatorAuthMiddleware guards the operator endpoints with a bearer token.
type OperatorAuthMiddleware struct {
	tokens *auth.OperatorTokenService
	logger logger.Interface
}

// NewOperatorAuthMiddleware returns a middleware that checks tokens with tokens.
// With a nil service every request passes unauthenticated.
func NewOperatorAuthMiddleware(tokens *auth.OperatorTokenService, logger logger.Interface) *OperatorAuthMiddleware {
	return &OperatorAuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

func (m *OperatorAuthMiddleware) RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.tokens == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, errors.ErrorTypeUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, errors.ErrorTypeUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify operator token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, errors.ErrorTypeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOperator, claims.Subject)
		c.Next()
	}
}
