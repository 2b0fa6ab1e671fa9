// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/handlers"
	"github.com/javajoker/franchise-backoffice/internal/middleware"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

const Version = "1.0.0"

var (
	adminOnly         = middleware.RequireRoles(models.RoleAdmin)
	adminOrFranchisor = middleware.RequireRoles(models.RoleAdmin, models.RoleFranchisor)
	operatorsOnly     = middleware.RequireRoles(models.RoleAdmin, models.RoleFranchisor, models.RoleFranchisee)
	leadRoles         = middleware.RequireRoles(models.RoleAdmin, models.RoleFranchisor, models.RoleBroker)
)

func Initialize(db *gorm.DB, cfg *config.Config, svc *services.Container, limiters *middleware.Limiters) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.User)
	adminHandler := handlers.NewAdminHandler(svc.Admin)
	franchiseHandler := handlers.NewFranchiseHandler(svc.Franchise)
	unitHandler := handlers.NewUnitHandler(svc.Unit)
	leadHandler := handlers.NewLeadHandler(svc.Lead)
	taskHandler := handlers.NewTaskHandler(svc.Task)
	ticketHandler := handlers.NewTechnicalRequestHandler(svc.TechnicalRequest)
	revenueHandler := handlers.NewRevenueHandler(svc.Revenue)
	royaltyHandler := handlers.NewRoyaltyHandler(svc.Royalty)
	productHandler := handlers.NewProductHandler(svc.Product)
	documentHandler := handlers.NewDocumentHandler(svc.Document)
	reviewHandler := handlers.NewReviewHandler(svc.Review)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
	staffHandler := handlers.NewStaffHandler(svc.Staff)
	propertyHandler := handlers.NewPropertyHandler(svc.Property)
	notificationHandler := handlers.NewNotificationHandler(svc.Notification)
	statisticsHandler := handlers.NewStatisticsHandler(svc.Statistics)

	// Set JWT secret and error exposure
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetEnvironment(cfg.Environment)

	if limiters == nil {
		limiters = middleware.NewLimiters(cfg.RateLimit)
	}
	authRequired := middleware.AuthRequired(svc.Auth)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "up"
		if err := database.Ping(c.Request.Context(), db); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "down"
		}
		c.JSON(status, gin.H{
			"status":   http.StatusText(status),
			"version":  Version,
			"database": dbStatus,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(limiters.General.Middleware())
	v1.Use(middleware.AuditLogMiddleware(db))
	{
		v1.GET("/options", handlers.GetOptions)
		v1.GET("/options/:name", handlers.GetOption)

		// Public marketplace
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("/franchises", franchiseHandler.Marketplace)
			marketplace.GET("/franchises/:id", franchiseHandler.MarketplaceDetail)
			marketplace.GET("/franchises/:id/reviews", franchiseHandler.MarketplaceReviews)
		}

		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", limiters.Auth.Middleware(), authHandler.Register)
			auth.POST("/login", limiters.Auth.Middleware(), authHandler.Login)
			auth.POST("/refresh", limiters.Auth.Middleware(), authHandler.RefreshToken)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
			auth.PUT("/profile", authRequired, authHandler.UpdateProfile)
			auth.POST("/change-password", authRequired, authHandler.ChangePassword)
		}

		protected := v1.Group("")
		protected.Use(authRequired)

		users := protected.Group("/users")
		{
			users.GET("/brokers", adminOrFranchisor, userHandler.ListBrokers)
			users.GET("", adminOnly, userHandler.List)
			users.POST("", adminOnly, userHandler.Create)
			users.GET("/:id", adminOnly, userHandler.Get)
			users.PUT("/:id", adminOnly, userHandler.Update)
			users.DELETE("/:id", adminOnly, userHandler.Delete)
			users.PATCH("/:id/status", adminOnly, userHandler.UpdateStatus)
			users.POST("/:id/reset-password", adminOnly, userHandler.ResetPassword)
		}

		admin := protected.Group("/admin")
		admin.Use(adminOnly)
		{
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
			admin.POST("/royalties/mark-overdue", royaltyHandler.MarkOverdue)
		}

		franchises := protected.Group("/franchises")
		{
			franchises.GET("", franchiseHandler.List)
			franchises.POST("", adminOrFranchisor, franchiseHandler.Create)
			franchises.GET("/:id", franchiseHandler.Get)
			franchises.PUT("/:id", adminOrFranchisor, franchiseHandler.Update)
			franchises.DELETE("/:id", adminOrFranchisor, franchiseHandler.Delete)
			franchises.POST("/:id/assign-broker", adminOrFranchisor, franchiseHandler.AssignBroker)
			franchises.POST("/:id/toggle-marketplace", adminOrFranchisor, franchiseHandler.ToggleMarketplace)
			franchises.PATCH("/:id/status", adminOrFranchisor, franchiseHandler.UpdateStatus)
		}

		protected.POST("/franchisees", adminOrFranchisor, unitHandler.CreateFranchiseeWithUnit)

		units := protected.Group("/units")
		{
			units.GET("", unitHandler.List)
			units.POST("", adminOrFranchisor, unitHandler.Create)
			units.GET("/:id", unitHandler.Get)
			units.PUT("/:id", operatorsOnly, unitHandler.Update)
			units.DELETE("/:id", adminOrFranchisor, unitHandler.Delete)
			units.POST("/:id/assign-franchisee", adminOrFranchisor, unitHandler.AssignFranchisee)
			units.PATCH("/:id/status", adminOrFranchisor, unitHandler.UpdateStatus)
		}

		leads := protected.Group("/leads")
		leads.Use(leadRoles)
		{
			leads.GET("", leadHandler.List)
			leads.POST("", leadHandler.Create)
			leads.GET("/:id", leadHandler.Get)
			leads.PUT("/:id", leadHandler.Update)
			leads.DELETE("/:id", leadHandler.Delete)
			leads.POST("/:id/assign", leadHandler.Assign)
			leads.PATCH("/:id/status", leadHandler.UpdateStatus)
			leads.POST("/:id/convert", leadHandler.Convert)
			leads.POST("/:id/mark-lost", leadHandler.MarkLost)
			leads.POST("/:id/notes", leadHandler.AddNote)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
			tasks.POST("/:id/assign", taskHandler.Assign)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			tasks.POST("/:id/complete", taskHandler.Complete)
		}

		tickets := protected.Group("/technical-requests")
		{
			tickets.GET("", ticketHandler.List)
			tickets.POST("", ticketHandler.Create)
			tickets.GET("/:id", ticketHandler.Get)
			tickets.PUT("/:id", ticketHandler.Update)
			tickets.DELETE("/:id", ticketHandler.Delete)
			tickets.POST("/:id/assign", adminOrFranchisor, ticketHandler.Assign)
			tickets.PATCH("/:id/status", ticketHandler.UpdateStatus)
			tickets.POST("/:id/resolve", ticketHandler.Resolve)
			tickets.POST("/:id/close", ticketHandler.Close)
			tickets.POST("/:id/escalate", ticketHandler.Escalate)
			tickets.POST("/:id/rate", ticketHandler.Rate)
			tickets.POST("/:id/attachments", limiters.Upload.Middleware(), ticketHandler.AddAttachment)
		}

		revenues := protected.Group("/revenues")
		revenues.Use(operatorsOnly)
		{
			revenues.GET("", revenueHandler.List)
			revenues.POST("", revenueHandler.Create)
			revenues.GET("/:id", revenueHandler.Get)
			revenues.PUT("/:id", revenueHandler.Update)
			revenues.DELETE("/:id", revenueHandler.Delete)
			revenues.POST("/:id/verify", adminOrFranchisor, revenueHandler.Verify)
			revenues.POST("/:id/dispute", adminOrFranchisor, revenueHandler.Dispute)
			revenues.POST("/:id/refund", adminOrFranchisor, revenueHandler.Refund)
		}

		royalties := protected.Group("/royalties")
		royalties.Use(operatorsOnly)
		{
			royalties.GET("", royaltyHandler.List)
			royalties.POST("", adminOrFranchisor, royaltyHandler.Create)
			royalties.POST("/generate", adminOrFranchisor, royaltyHandler.Generate)
			royalties.GET("/:id", royaltyHandler.Get)
			royalties.PUT("/:id", adminOrFranchisor, royaltyHandler.Update)
			royalties.DELETE("/:id", adminOrFranchisor, royaltyHandler.Delete)
			royalties.POST("/:id/mark-paid", adminOrFranchisor, royaltyHandler.MarkPaid)
			royalties.POST("/:id/dispute", royaltyHandler.Dispute)
			royalties.POST("/:id/cancel", adminOrFranchisor, royaltyHandler.Cancel)
			royalties.POST("/:id/payment-proof", limiters.Upload.Middleware(), royaltyHandler.UploadPaymentProof)
			royalties.POST("/:id/payment-intent", royaltyHandler.CreatePaymentIntent)
			royalties.POST("/:id/confirm-payment", royaltyHandler.ConfirmPayment)
		}

		products := protected.Group("/products")
		products.Use(operatorsOnly)
		{
			products.GET("", productHandler.List)
			products.POST("", adminOrFranchisor, productHandler.Create)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", adminOrFranchisor, productHandler.Update)
			products.DELETE("/:id", adminOrFranchisor, productHandler.Delete)
		}

		documents := protected.Group("/documents")
		{
			documents.GET("", documentHandler.List)
			documents.POST("", limiters.Upload.Middleware(), documentHandler.Upload)
			documents.GET("/:id", documentHandler.Get)
			documents.GET("/:id/download", documentHandler.Download)
			documents.PUT("/:id", documentHandler.Update)
			documents.DELETE("/:id", documentHandler.Delete)
		}

		reviews := protected.Group("/reviews")
		{
			reviews.GET("", reviewHandler.List)
			reviews.POST("", reviewHandler.Create)
			reviews.GET("/:id", reviewHandler.Get)
			reviews.PUT("/:id", reviewHandler.Update)
			reviews.DELETE("/:id", reviewHandler.Delete)
			reviews.POST("/:id/moderate", adminOrFranchisor, reviewHandler.Moderate)
		}

		transactions := protected.Group("/transactions")
		transactions.Use(operatorsOnly)
		{
			transactions.GET("", transactionHandler.List)
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
			transactions.POST("/:id/complete", transactionHandler.Complete)
			transactions.POST("/:id/cancel", transactionHandler.Cancel)
		}

		staff := protected.Group("/staff")
		staff.Use(operatorsOnly)
		{
			staff.GET("", staffHandler.List)
			staff.POST("", staffHandler.Create)
			staff.GET("/:id", staffHandler.Get)
			staff.PUT("/:id", staffHandler.Update)
			staff.DELETE("/:id", staffHandler.Delete)
			staff.POST("/:id/units", staffHandler.AssignToUnit)
			staff.DELETE("/:id/units/:unitId", staffHandler.UnassignFromUnit)
		}

		properties := protected.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.POST("", propertyHandler.Create)
			properties.GET("/:id", propertyHandler.Get)
			properties.PUT("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)
			properties.PATCH("/:id/status", propertyHandler.UpdateStatus)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		statistics := protected.Group("/statistics")
		{
			statistics.GET("/dashboard", statisticsHandler.Dashboard)
			statistics.GET("/daily/:metric", statisticsHandler.Daily)
			statistics.GET("/monthly/:metric", statisticsHandler.Monthly)
		}
	}

	return r
}
