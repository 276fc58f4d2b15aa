package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/spently/spently-backend/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Category *CategoryHandler
	Expense  *ExpenseHandler
	Summary  *SummaryHandler
	Export   *ExportHandler
}

// RegisterRoutes sets up all API routes. mw runs before authentication.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers, mw ...echo.MiddlewareFunc) {
	// API version 1
	api := e.Group("/api/v1", mw...)
	api.Use(authMiddleware.Authenticate())

	// Auth routes; the callback runs before the user exists
	auth := api.Group("/auth")
	auth.POST("/callback", h.Auth.Callback)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me, middleware.RequireUser())

	// Everything else needs a provisioned user
	protected := api.Group("", middleware.RequireUser(), middleware.RateLimitMiddleware(rateLimiter))

	// Profile routes
	profile := protected.Group("/profile")
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("", h.Profile.UpdateProfile)
	profile.POST("/avatar", h.Profile.UploadAvatar)
	profile.DELETE("/avatar", h.Profile.DeleteAvatar)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("/summary", h.Summary.GetMonthlySummary)
	expenses.GET("/yearly-summary", h.Summary.GetYearlySummary)
	expenses.GET("/export", h.Export.ExportExpenses)
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.PUT("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)
}
