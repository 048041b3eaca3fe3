package main

import (
	"fmt"
	"net/http"
	"os"

	"seedit/internal/authz"
	"seedit/internal/config"
	"seedit/internal/database"
	"seedit/internal/handlers"
	"seedit/internal/logger"
	"seedit/internal/middleware"
	"seedit/internal/models"
	"seedit/internal/services"
	"seedit/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	if err := seedGroups(db); err != nil {
		return fmt.Errorf("failed to seed role groups: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	notificationService := services.NewNotificationService(db)
	kycService := services.NewKYCService(db, notificationService)
	fundService := services.NewFundService(db)
	investmentService := services.NewInvestmentService(db, notificationService)
	groupService := services.NewGroupService(db, notificationService)
	transactionService := services.NewTransactionService(db)
	storageService := services.NewStorageService(db, authz.DefaultStoragePolicy, appConfig.StorageBucket)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService)
	kycHandler := handlers.NewKYCHandler(kycService)
	fundHandler := handlers.NewFundHandler(fundService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	groupHandler := handlers.NewGroupHandler(groupService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	storageHandler := handlers.NewStorageHandler(storageService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/confirm", authHandler.ConfirmSignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Storage access checks run with optional authentication so that
	// guest-readable paths remain reachable without a token.
	storage := v1.Group("/storage")
	storage.Use(middleware.OptionalAuthMiddleware())
	storage.POST("/access", storageHandler.CheckAccess)
	storage.GET("/objects", storageHandler.GetObject)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Identity
	protected.GET("/me", authHandler.GetMe)
	protected.PATCH("/me/attributes", userHandler.UpdateOwnAttributes)
	protected.POST("/auth/mfa/totp/enroll", authHandler.EnrollTOTP)
	protected.POST("/auth/mfa/totp/activate", authHandler.ActivateTOTP)
	protected.POST("/auth/mfa/sms/challenge", authHandler.ChallengeSMS)

	// Group administration
	users := protected.Group("/users")
	users.POST("/:userId/groups", userHandler.AssignGroup)
	users.DELETE("/:userId/groups/:group", userHandler.RemoveGroup)
	users.GET("/:userId/transactions", transactionHandler.ListUserTransactions)

	// Profile routes
	profiles := protected.Group("/profiles")
	profiles.POST("", profileHandler.CreateProfile)
	profiles.GET("/me", profileHandler.GetOwnProfile)
	profiles.GET("/:userId", profileHandler.GetProfile)
	profiles.PUT("/:userId", profileHandler.UpdateProfile)

	// KYC document routes
	kyc := protected.Group("/kyc/documents")
	kyc.POST("", kycHandler.SubmitDocument)
	kyc.GET("", kycHandler.ListOwnDocuments)
	kyc.GET("/pending", kycHandler.ListPendingDocuments)
	kyc.GET("/:id", kycHandler.GetDocument)
	kyc.POST("/:id/review", kycHandler.ReviewDocument)

	// Fund routes
	funds := protected.Group("/funds")
	funds.POST("", fundHandler.CreateFund)
	funds.GET("", fundHandler.ListFunds)
	funds.GET("/:id", fundHandler.GetFund)
	funds.PUT("/:id", fundHandler.UpdateFund)
	funds.DELETE("/:id", fundHandler.DeleteFund)
	funds.GET("/:id/investments", investmentHandler.ListFundInvestments)

	// Investment routes
	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.Purchase)
	investments.GET("", investmentHandler.ListOwnInvestments)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.POST("/:id/redeem", investmentHandler.Redeem)

	// Investment group routes
	groups := protected.Group("/groups")
	groups.POST("", groupHandler.CreateGroup)
	groups.GET("", groupHandler.ListGroups)
	groups.GET("/:id", groupHandler.GetGroup)
	groups.PATCH("/:id/status", groupHandler.UpdateGroupStatus)
	groups.POST("/:id/join", groupHandler.JoinGroup)
	groups.GET("/:id/memberships", groupHandler.ListMemberships)

	memberships := protected.Group("/memberships")
	memberships.POST("/:membershipId/activate", groupHandler.ActivateMembership)
	memberships.POST("/:membershipId/leave", groupHandler.LeaveGroup)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListOwnTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.POST("/:id/cancel", transactionHandler.CancelTransaction)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.ListNotifications)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)

	// Storage object metadata (authenticated writes)
	objects := protected.Group("/storage/objects")
	objects.POST("", storageHandler.RecordObject)
	objects.DELETE("", storageHandler.DeleteObject)

	log.Infof("Starting SeedIt backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// seedGroups ensures the fixed role groups exist.
func seedGroups(db *gorm.DB) error {
	for _, name := range authz.AllGroups {
		group := models.Group{Name: name}
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&group).Error; err != nil {
			return err
		}
	}
	return nil
}
