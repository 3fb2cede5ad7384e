package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	var calls int
	r := NewRouter(engine).Use(func(c *gin.Context) {
		calls++
		c.Next()
	})
	r.Register(NewDomainGroup("test", "/test").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}))
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, 1, calls)

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/test/ping").Code)
}

func TestDomainGroup(t *testing.T) {
	ok := func(body string) gin.HandlerFunc {
		return func(c *gin.Context) { c.String(http.StatusOK, body) }
	}

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("items", "/items").
			GET("", ok("list")).
			POST("", ok("create")).
			PUT("/:id", ok("update")).
			PATCH("/:id/status", ok("status")).
			DELETE("/:id", ok("delete"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method, path, body string
		}{
			{http.MethodGet, "/api/v1/items", "list"},
			{http.MethodPost, "/api/v1/items", "create"},
			{http.MethodPut, "/api/v1/items/1", "update"},
			{http.MethodPatch, "/api/v1/items/1/status", "status"},
			{http.MethodDelete, "/api/v1/items/1", "delete"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, tt.method+" "+tt.path)
			assert.Equal(t, tt.body, w.Body.String())
		}
		assert.Equal(t, "items", g.Name())
		assert.Equal(t, "/items", g.Prefix())
	})

	t.Run("group middleware only wraps its routes", func(t *testing.T) {
		engine := gin.New()
		api := engine.Group("/api/v1")
		NewDomainGroup("guarded", "/guarded").
			Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }).
			GET("", ok("secret")).
			RegisterRoutes(api)
		NewDomainGroup("open", "/open").GET("", ok("open")).RegisterRoutes(api)

		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/guarded").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/open").Code)
	})

	t.Run("subgroups nest prefixes", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("billing", "/billing")
		g.Group("invoices", "/invoices").GET("/:id", ok("invoice"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/billing/invoices/42")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "invoice", w.Body.String())
	})
}

func TestAPIGroups(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(APIGroups(Handlers{}, zap.NewNop())...).Setup()
	NewRouter(engine).Register(PublicGroups(Handlers{})...).Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/categories/tree",
		"GET /api/v1/categories/options",
		"GET /api/v1/categories/:id/path",
		"GET /api/v1/products/stats",
		"POST /api/v1/products/:id/activate",
		"GET /api/v1/customers",
		"GET /api/v1/quotations/preview-number",
		"PUT /api/v1/quotations/:id/items/:itemId",
		"PATCH /api/v1/quotations/:id/status",
		"POST /api/v1/quotations/:id/duplicate",
		"GET /api/v1/terms-templates/category/:category",
		"POST /api/v1/support-contracts/:id/reactivate",
		"GET /api/v1/units/:id/occupancy-history",
		"POST /api/v1/tenant-units/:id/end",
		"GET /api/v1/tenant-ledgers/tenant/:tenantId/summary",
		"GET /api/v1/invoice-templates/variables",
		"POST /api/v1/invoice-templates/:id/logo-upload-url",
		"POST /api/v1/rent-invoices/generate",
		"GET /api/v1/rent-invoices/:id/pdf",
		"GET /api/v1/payments/summary",
		"POST /api/v1/payments/:id/void",
		"POST /api/v1/numbers/:type/next",
		"GET /api/v1/notifications/unread-count",
		"POST /api/v1/notifications/read-all",
		"GET /api/v1/reports/dashboard",
		"GET /api/v1/audit-logs",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
