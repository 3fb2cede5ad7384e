package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"github.com/rentquote/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Token scopes guarding the operations that touch many records at once
const (
	ScopeBillingRun = "billing:run"
	ScopeNumbers    = "numbers:issue"
)

// RequireScope rejects tokens that do not grant scope. Tokens without any
// scope and header-authenticated development requests pass.
func RequireScope(scope string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || claims.HasScope(scope) {
			c.Next()
			return
		}
		log.Warn("scope denied",
			zap.String("user_id", claims.UserID),
			zap.String("required_scope", scope),
			zap.Strings("token_scopes", claims.Scopes),
			zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden, "Access denied: token lacks scope "+scope, c.GetString(logger.GinRequestIDKey)))
	}
}
