package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/finpilot-backoffice/internal/api/handler"
	"github.com/finpilot-backoffice/internal/api/middleware"
	"github.com/finpilot-backoffice/internal/idempotency"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	store idempotency.Store,
	tenantHandler *handler.TenantHandler,
	invoiceHandler *handler.InvoiceHandler,
	bankTransactionHandler *handler.BankTransactionHandler,
	reconciliationHandler *handler.ReconciliationHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/v1")
	{
		tenants := v1.Group("/tenants")
		{
			tenants.POST("", tenantHandler.Create)
			tenants.GET("", tenantHandler.List)

			// Tenant-scoped operations
			scoped := tenants.Group("/:tenantId")
			{
				scoped.POST("/invoices", invoiceHandler.Create)
				scoped.GET("/invoices", invoiceHandler.List)

				scoped.POST("/bank-transactions/import", middleware.Idempotency(logger, store), bankTransactionHandler.Import)
				scoped.GET("/bank-transactions", bankTransactionHandler.List)

				scoped.POST("/reconcile", reconciliationHandler.Reconcile)
				scoped.GET("/reconcile/explain", reconciliationHandler.Explain)
			}
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
