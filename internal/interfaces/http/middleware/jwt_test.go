package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/infrastructure/auth"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/rentquote/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestTokens(t *testing.T, svc *auth.JWTService, scopes ...string) (*auth.TokenPair, auth.Subject) {
	t.Helper()
	subject := auth.Subject{AccountID: uuid.New(), UserID: uuid.New(), Username: "landlord", Scopes: scopes}
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	return pair, subject
}

func authRouter(cfg AuthConfig, handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Auth(cfg))
	if len(handlers) == 0 {
		handlers = []gin.HandlerFunc{func(c *gin.Context) {
			accountID, ok := GetAccountID(c)
			c.JSON(http.StatusOK, gin.H{"account_id": accountID.String(), "ok": ok, "user_id": GetUserID(c).String()})
		}}
	}
	router.GET("/test", handlers...)
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	pair, subject := newTestTokens(t, svc)
	router := authRouter(AuthConfig{JWTService: svc})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, subject.AccountID.String(), body["account_id"])
	assert.Equal(t, subject.UserID.String(), body["user_id"])
	assert.Equal(t, true, body["ok"])
}

func TestAuth_Rejections(t *testing.T) {
	svc := newTestJWTService()
	pair, _ := newTestTokens(t, svc)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"not bearer", "Basic abc", dto.ErrCodeTokenInvalid},
		{"garbage token", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token as access", BearerPrefix + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authRouter(AuthConfig{JWTService: svc})
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			errInfo := decodeError(t, w)
			assert.Equal(t, tt.code, errInfo.Code)
			assert.NotEmpty(t, errInfo.RequestID)
		})
	}
}

func TestAuth_AccountHeader(t *testing.T) {
	svc := newTestJWTService()
	accountID := uuid.New()

	t.Run("accepted when enabled", func(t *testing.T) {
		router := authRouter(AuthConfig{JWTService: svc, AllowAccountHeader: true})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AccountHeaderKey, accountID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), accountID.String())
		assert.Contains(t, w.Body.String(), uuid.Nil.String())
	})

	t.Run("ignored when disabled", func(t *testing.T) {
		router := authRouter(AuthConfig{JWTService: svc})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AccountHeaderKey, accountID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		router := authRouter(AuthConfig{JWTService: svc, AllowAccountHeader: true})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AccountHeaderKey, "acme")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuth_Blacklist(t *testing.T) {
	svc := newTestJWTService()
	ctx := context.Background()

	t.Run("revoked token", func(t *testing.T) {
		pair, _ := newTestTokens(t, svc)
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.Revoke(ctx, claims.ID, time.Hour))

		router := authRouter(AuthConfig{JWTService: svc, Blacklist: blacklist})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token has been revoked", decodeError(t, w).Message)
	})

	t.Run("other tokens still pass", func(t *testing.T) {
		pair, _ := newTestTokens(t, svc)
		router := authRouter(AuthConfig{JWTService: svc, Blacklist: auth.NewInMemoryTokenBlacklist()})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireScope(t *testing.T) {
	svc := newTestJWTService()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	tests := []struct {
		name   string
		scopes []string
		want   int
	}{
		{"unscoped token", nil, http.StatusNoContent},
		{"granted", []string{ScopeBillingRun}, http.StatusNoContent},
		{"missing", []string{"reports:read"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, _ := newTestTokens(t, svc, tt.scopes...)
			router := authRouter(AuthConfig{JWTService: svc}, RequireScope(ScopeBillingRun, nil), ok)
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
