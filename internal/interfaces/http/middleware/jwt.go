package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/infrastructure/auth"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"github.com/rentquote/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys and headers
const (
	JWTClaimsKey     = "jwt_claims"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
	AccountHeaderKey = "X-Account-ID"
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; revoked tokens are rejected when set
	Blacklist auth.TokenBlacklist
	// AllowAccountHeader accepts X-Account-ID without a token (development only)
	AllowAccountHeader bool
	Logger             *zap.Logger
}

// Auth authenticates the request and fixes the account every handler works
// in. A bearer token wins over the development header.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			if cfg.AllowAccountHeader {
				if accountID, err := uuid.Parse(c.GetHeader(AccountHeaderKey)); err == nil {
					setIdentity(c, accountID.String(), "")
					c.Next()
					return
				}
			}
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}

		if cfg.Blacklist != nil {
			ctx := c.Request.Context()
			// Fail open when Redis is unreachable
			if claims.ID != "" {
				revoked, err := cfg.Blacklist.IsRevoked(ctx, claims.ID)
				if err != nil {
					log.Error("token blacklist lookup failed", zap.String("jti", claims.ID), zap.Error(err))
				} else if revoked {
					abortUnauthorized(c, log, auth.ErrTokenBlacklisted, "Token has been revoked")
					return
				}
			}
			revoked, err := cfg.Blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
			if err != nil {
				log.Error("user revocation lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, log, auth.ErrTokenBlacklisted, "Session has been invalidated")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		setIdentity(c, claims.AccountID, claims.UserID)
		c.Next()
	}
}

func setIdentity(c *gin.Context, accountID, userID string) {
	c.Set(logger.GinAccountIDKey, accountID)
	ctx := logger.WithAccountID(c.Request.Context(), accountID)
	if userID != "" {
		c.Set(logger.GinUserIDKey, userID)
		ctx = logger.WithUserID(ctx, userID)
	}
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("authentication failed",
		zap.Error(err),
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path))

	code := dto.ErrCodeUnauthorized
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingAccountID),
		errors.Is(err, auth.ErrTokenBlacklisted):
		code = dto.ErrCodeTokenInvalid
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}

// GetJWTClaims retrieves the validated claims, nil for header-authenticated requests
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAccountID returns the account the request was authenticated for
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(logger.GinAccountIDKey))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUserID returns the acting user, uuid.Nil when unknown
func GetUserID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(logger.GinUserIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}
