package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rentquote/backend/internal/interfaces/http/handler"
	"github.com/rentquote/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every API handler mounted under /api/v1
type Handlers struct {
	Auth            *handler.AuthHandler
	Category        *handler.CategoryHandler
	Product         *handler.ProductHandler
	Customer        *handler.CustomerHandler
	Quotation       *handler.QuotationHandler
	Terms           *handler.TermsHandler
	SupportContract *handler.SupportContractHandler
	Property        *handler.PropertyHandler
	Unit            *handler.UnitHandler
	Tenant          *handler.TenantHandler
	Lease           *handler.LeaseHandler
	Ledger          *handler.LedgerHandler
	InvoiceTemplate *handler.InvoiceTemplateHandler
	RentInvoice     *handler.RentInvoiceHandler
	Payment         *handler.PaymentHandler
	Number          *handler.NumberHandler
	Notification    *handler.NotificationHandler
	Report          *handler.ReportHandler
	Audit           *handler.AuditHandler
}

// APIGroups builds the route groups of the API. Everything except
// /auth/refresh expects the Auth middleware to have run.
func APIGroups(h Handlers, log *zap.Logger) []RouteRegistrar {
	requireBillingRun := middleware.RequireScope(middleware.ScopeBillingRun, log)
	requireNumbers := middleware.RequireScope(middleware.ScopeNumbers, log)

	categories := NewDomainGroup("categories", "/categories").
		POST("", h.Category.Create).
		GET("", h.Category.List).
		GET("/tree", h.Category.GetTree).
		GET("/options", h.Category.GetOptions).
		GET("/:id", h.Category.GetByID).
		GET("/:id/path", h.Category.GetPath).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	products := NewDomainGroup("products", "/products").
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/stats", h.Product.Stats).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		POST("/:id/activate", h.Product.Activate).
		POST("/:id/deactivate", h.Product.Deactivate).
		DELETE("/:id", h.Product.Delete)

	customers := crud(NewDomainGroup("customers", "/customers"),
		h.Customer.Create, h.Customer.List, h.Customer.GetByID, h.Customer.Update, h.Customer.Delete)

	quotations := NewDomainGroup("quotations", "/quotations").
		POST("", h.Quotation.Create).
		GET("", h.Quotation.List).
		GET("/preview-number", h.Quotation.PreviewNumber).
		GET("/:id", h.Quotation.GetByID).
		PUT("/:id", h.Quotation.Update).
		DELETE("/:id", h.Quotation.Delete).
		POST("/:id/items", h.Quotation.AddItem).
		PUT("/:id/items/:itemId", h.Quotation.UpdateItem).
		DELETE("/:id/items/:itemId", h.Quotation.RemoveItem).
		PATCH("/:id/status", h.Quotation.ChangeStatus).
		POST("/:id/duplicate", h.Quotation.Duplicate)

	terms := crud(NewDomainGroup("terms-templates", "/terms-templates"),
		h.Terms.Create, h.Terms.List, h.Terms.GetByID, h.Terms.Update, h.Terms.Delete).
		GET("/category/:category", h.Terms.GetByCategory).
		POST("/:id/default", h.Terms.SetDefault)

	contracts := crud(NewDomainGroup("support-contracts", "/support-contracts"),
		h.SupportContract.Create, h.SupportContract.List, h.SupportContract.GetByID,
		h.SupportContract.Update, h.SupportContract.Delete).
		POST("/:id/deactivate", h.SupportContract.Deactivate).
		POST("/:id/reactivate", h.SupportContract.Reactivate)

	properties := crud(NewDomainGroup("properties", "/properties"),
		h.Property.Create, h.Property.List, h.Property.GetByID, h.Property.Update, h.Property.Delete)

	units := crud(NewDomainGroup("units", "/units"),
		h.Unit.Create, h.Unit.List, h.Unit.GetByID, h.Unit.Update, h.Unit.Delete).
		GET("/:id/occupancy-history", h.Unit.OccupancyHistory)

	tenants := crud(NewDomainGroup("tenants", "/tenants"),
		h.Tenant.Create, h.Tenant.List, h.Tenant.GetByID, h.Tenant.Update, h.Tenant.Delete)

	leases := NewDomainGroup("tenant-units", "/tenant-units").
		POST("", h.Lease.Create).
		GET("", h.Lease.List).
		GET("/:id", h.Lease.GetByID).
		PUT("/:id", h.Lease.Update).
		POST("/:id/end", h.Lease.End)

	ledgers := crud(NewDomainGroup("tenant-ledgers", "/tenant-ledgers"),
		h.Ledger.Create, h.Ledger.List, h.Ledger.GetByID, h.Ledger.Update, h.Ledger.Delete).
		GET("/tenant/:tenantId/summary", h.Ledger.Summary)

	templates := crud(NewDomainGroup("invoice-templates", "/invoice-templates"),
		h.InvoiceTemplate.Create, h.InvoiceTemplate.List, h.InvoiceTemplate.GetByID,
		h.InvoiceTemplate.Update, h.InvoiceTemplate.Delete).
		GET("/variables", h.InvoiceTemplate.Variables).
		POST("/:id/default", h.InvoiceTemplate.SetDefault).
		POST("/:id/preview", h.InvoiceTemplate.Preview).
		POST("/:id/logo-upload-url", h.InvoiceTemplate.LogoUploadURL)

	invoices := NewDomainGroup("rent-invoices", "/rent-invoices").
		GET("", h.RentInvoice.List).
		POST("/generate", requireBillingRun, h.RentInvoice.Generate).
		GET("/:id", h.RentInvoice.GetByID).
		POST("/:id/pay", h.RentInvoice.MarkPaid).
		GET("/:id/pdf", h.RentInvoice.PDF)

	payments := NewDomainGroup("payments", "/payments").
		POST("", h.Payment.Create).
		GET("", h.Payment.List).
		GET("/summary", h.Payment.Summary).
		GET("/:id", h.Payment.GetByID).
		POST("/:id/capture", h.Payment.Capture).
		POST("/:id/void", h.Payment.Void)

	numbers := NewDomainGroup("numbers", "/numbers").
		POST("/:type/next", requireNumbers, h.Number.Next).
		GET("/:type/preview", h.Number.Preview)

	notifications := NewDomainGroup("notifications", "/notifications").
		POST("", h.Notification.Create).
		GET("", h.Notification.List).
		GET("/unread-count", h.Notification.UnreadCount).
		POST("/read-all", h.Notification.MarkAllRead).
		GET("/:id", h.Notification.GetByID).
		POST("/:id/read", h.Notification.MarkRead).
		DELETE("/:id", h.Notification.Delete)

	reports := NewDomainGroup("reports", "/reports").
		GET("/dashboard", h.Report.Dashboard)

	audit := NewDomainGroup("audit-logs", "/audit-logs").
		GET("", h.Audit.List)

	authRoutes := NewDomainGroup("auth", "/auth").
		POST("/logout", h.Auth.Logout)

	return []RouteRegistrar{
		authRoutes,
		categories, products,
		customers, quotations, terms, contracts,
		properties, units, tenants, leases,
		ledgers, templates, invoices, payments, numbers,
		notifications, reports, audit,
	}
}

// PublicGroups builds the API routes that do not require a token
func PublicGroups(h Handlers) []RouteRegistrar {
	return []RouteRegistrar{
		NewDomainGroup("auth", "/auth").POST("/refresh", h.Auth.Refresh),
	}
}

func crud(dg *DomainGroup, create, list, get, update, remove gin.HandlerFunc) *DomainGroup {
	return dg.
		POST("", create).
		GET("", list).
		GET("/:id", get).
		PUT("/:id", update).
		DELETE("/:id", remove)
}
