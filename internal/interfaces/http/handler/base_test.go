package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"github.com/rentquote/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withAccount simulates the Auth middleware for an account and user
func withAccount(accountID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(logger.GinRequestIDKey, "req-test")
		c.Set(logger.GinAccountIDKey, accountID.String())
		if userID != uuid.Nil {
			c.Set(logger.GinUserIDKey, userID.String())
		}
		c.Next()
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found sentinel", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load unit: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"resource specific not found", shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found"), http.StatusNotFound, "TENANT_NOT_FOUND"},
		{"duplicate", shared.NewDomainError("DUPLICATE_UNIT_NUMBER", "Unit number already used"), http.StatusConflict, "DUPLICATE_UNIT_NUMBER"},
		{"business rule", shared.NewDomainError("UNIT_OCCUPIED", "Unit already has an active lease"), http.StatusUnprocessableEntity, "UNIT_OCCUPIED"},
		{"infrastructure", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			engine := gin.New()
			engine.GET("/", withAccount(uuid.New(), uuid.Nil), func(c *gin.Context) {
				h.HandleDomainError(c, tt.err)
			})

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-test", resp.Error.RequestID)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error.Message, "connection refused")
			}
		})
	}
}

func TestBaseHandler_Guards(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.GET("/open/:id", func(c *gin.Context) {
		if _, ok := h.accountID(c); ok {
			c.Status(http.StatusOK)
		}
	})
	engine.GET("/items/:id", withAccount(uuid.New(), uuid.Nil), func(c *gin.Context) {
		if _, ok := h.pathID(c, "id"); ok {
			c.Status(http.StatusOK)
		}
	})

	t.Run("missing account is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open/1", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
	})

	t.Run("valid id passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestBaseHandler_List(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		filter := shared.Filter{Page: 2, PageSize: 0}.Normalize()
		h.List(c, []string{"a", "b"}, 17, filter)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(17), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, shared.DefaultPageSize, resp.Meta.PageSize)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}
