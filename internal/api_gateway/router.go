package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cashcog-expense-manager/internal/api_gateway/handler"
	"github.com/cashcog-expense-manager/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	expenseHandler *handler.ExpenseHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Expense review operations
		expenses := v1.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.GET("/:uuid", expenseHandler.GetByUUID)
			expenses.PUT("/:uuid", expenseHandler.UpdateStatus)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
