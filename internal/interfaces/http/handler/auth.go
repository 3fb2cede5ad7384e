package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentquote/backend/internal/infrastructure/auth"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"github.com/rentquote/backend/internal/interfaces/http/dto"
	"github.com/rentquote/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler exchanges and revokes tokens. Tokens are minted by the
// admin CLI; there is no password login.
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	now        func() time.Time
}

// NewAuthHandler creates a new AuthHandler. blacklist may be nil, in which
// case logout and refresh rotation are not enforced.
func NewAuthHandler(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *AuthHandler {
	return &AuthHandler{jwtService: jwtService, blacklist: blacklist, now: time.Now}
}

// RefreshTokenRequest carries the refresh token to exchange
// @Description Refresh token exchange request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally names the refresh token to revoke with the access token
// @Description Logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Refresh access token
// @Description  Exchanges a refresh token for a new token pair. The old refresh token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[auth.TokenPair]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.tokenError(c, err)
		return
	}
	if h.revoked(c, claims) {
		h.tokenError(c, auth.ErrTokenBlacklisted)
		return
	}

	pair, err := h.jwtService.RefreshTokenPair(req.RefreshToken, claims.Scopes)
	if err != nil {
		h.tokenError(c, err)
		return
	}
	h.revoke(c, claims)
	h.Success(c, pair)
}

// Logout godoc
// @ID           logout
// @Summary      Revoke the current tokens
// @Tags         auth
// @Accept       json
// @Param        request body LogoutRequest false "Refresh token to revoke as well"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.revoke(c, claims)

	var req LogoutRequest
	if c.Request.ContentLength != 0 && c.ShouldBindJSON(&req) == nil && req.RefreshToken != "" {
		if refresh, err := h.jwtService.ValidateRefreshToken(req.RefreshToken); err == nil && refresh.UserID == claims.UserID {
			h.revoke(c, refresh)
		}
	}
	h.NoContent(c)
}

func (h *AuthHandler) revoked(c *gin.Context, claims *auth.Claims) bool {
	if h.blacklist == nil || claims.ID == "" {
		return false
	}
	revoked, err := h.blacklist.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		logger.GetGinLogger(c).Warn("token blacklist lookup failed", zap.Error(err))
		return false
	}
	return revoked
}

func (h *AuthHandler) revoke(c *gin.Context, claims *auth.Claims) {
	if h.blacklist == nil || claims.ID == "" {
		return
	}
	ttl := claims.RemainingTTL(h.now())
	if ttl <= 0 {
		return
	}
	if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		logger.GetGinLogger(c).Warn("token revocation failed", zap.String("jti", claims.ID), zap.Error(err))
	}
}

func (h *AuthHandler) tokenError(c *gin.Context, err error) {
	code := dto.ErrCodeTokenInvalid
	message := "Invalid refresh token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Refresh token has expired"
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		code, message = dto.ErrCodeTokenExpired, "Refresh limit reached, a new token must be issued"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		message = "Refresh token has been revoked"
	}
	h.Error(c, http.StatusUnauthorized, code, message)
}
