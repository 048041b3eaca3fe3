package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"seedit/internal/authz"
	"seedit/internal/config"
	"seedit/internal/handlers"
	"seedit/internal/logger"
	"seedit/internal/middleware"
	"seedit/internal/models"
	"seedit/internal/services"
	"seedit/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

// phoneCounter keeps phone numbers unique across signups.
var phoneCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        "integration-test-secret",
		JWTExpirationDur: time.Hour,
		StorageBucket:    "seedit-storage-test",
	})
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Group{},
		&models.VerificationCode{},
		&models.UserProfile{},
		&models.KYCDocument{},
		&models.InvestmentFund{},
		&models.Investment{},
		&models.InvestmentGroup{},
		&models.GroupMembership{},
		&models.Transaction{},
		&models.Notification{},
		&models.StorageObject{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, name := range authz.AllGroups {
		group := models.Group{Name: name}
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&group).Error; err != nil {
			t.Fatalf("failed to seed group %q: %v", name, err)
		}
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	notificationService := services.NewNotificationService(db)
	kycService := services.NewKYCService(db, notificationService)
	fundService := services.NewFundService(db)
	investmentService := services.NewInvestmentService(db, notificationService)
	groupService := services.NewGroupService(db, notificationService)
	transactionService := services.NewTransactionService(db)
	storageService := services.NewStorageService(db, authz.DefaultStoragePolicy, config.Get().StorageBucket)

	// Handlers
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

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/confirm", authHandler.ConfirmSignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Storage access checks accept guests
	storage := v1.Group("/storage")
	storage.Use(middleware.OptionalAuthMiddleware())
	storage.POST("/access", storageHandler.CheckAccess)
	storage.GET("/objects", storageHandler.GetObject)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/me", authHandler.GetMe)
	protected.PATCH("/me/attributes", userHandler.UpdateOwnAttributes)
	protected.POST("/auth/mfa/totp/enroll", authHandler.EnrollTOTP)
	protected.POST("/auth/mfa/totp/activate", authHandler.ActivateTOTP)
	protected.POST("/auth/mfa/sms/challenge", authHandler.ChallengeSMS)

	users := protected.Group("/users")
	users.POST("/:userId/groups", userHandler.AssignGroup)
	users.DELETE("/:userId/groups/:group", userHandler.RemoveGroup)
	users.GET("/:userId/transactions", transactionHandler.ListUserTransactions)

	profiles := protected.Group("/profiles")
	profiles.POST("", profileHandler.CreateProfile)
	profiles.GET("/me", profileHandler.GetOwnProfile)
	profiles.GET("/:userId", profileHandler.GetProfile)
	profiles.PUT("/:userId", profileHandler.UpdateProfile)

	kyc := protected.Group("/kyc/documents")
	kyc.POST("", kycHandler.SubmitDocument)
	kyc.GET("", kycHandler.ListOwnDocuments)
	kyc.GET("/pending", kycHandler.ListPendingDocuments)
	kyc.GET("/:id", kycHandler.GetDocument)
	kyc.POST("/:id/review", kycHandler.ReviewDocument)

	funds := protected.Group("/funds")
	funds.POST("", fundHandler.CreateFund)
	funds.GET("", fundHandler.ListFunds)
	funds.GET("/:id", fundHandler.GetFund)
	funds.PUT("/:id", fundHandler.UpdateFund)
	funds.DELETE("/:id", fundHandler.DeleteFund)
	funds.GET("/:id/investments", investmentHandler.ListFundInvestments)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.Purchase)
	investments.GET("", investmentHandler.ListOwnInvestments)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.POST("/:id/redeem", investmentHandler.Redeem)

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

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListOwnTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.POST("/:id/cancel", transactionHandler.CancelTransaction)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.ListNotifications)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)

	objects := protected.Group("/storage/objects")
	objects.POST("", storageHandler.RecordObject)
	objects.DELETE("", storageHandler.DeleteObject)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts error.code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// signUpUser registers a new identity and returns its user ID. The account
// is not yet confirmed.
func (app *testApp) signUpUser(t *testing.T, email, password string) string {
	t.Helper()
	phone := fmt.Sprintf("+2348030%06d", phoneCounter.Add(1))
	body := fmt.Sprintf(`{"email":%q,"phone_number":%q,"password":%q,"given_name":"Ade","family_name":"Okafor"}`,
		email, phone, password)
	rec := app.request("POST", "/api/v1/auth/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return user["id"].(string)
}

// confirmUser looks up the emailed verification code directly in the
// database and confirms the account with it.
func (app *testApp) confirmUser(t *testing.T, email, userID string) {
	t.Helper()
	var code models.VerificationCode
	err := app.DB.Where("user_id = ? AND purpose = ?", userID, models.CodePurposeSignup).
		Order("created_at DESC").First(&code).Error
	if err != nil {
		t.Fatalf("failed to load verification code: %v", err)
	}
	body := fmt.Sprintf(`{"email":%q,"code":%q}`, email, code.Code)
	rec := app.request("POST", "/api/v1/auth/confirm", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm failed: %d %s", rec.Code, rec.Body.String())
	}
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// registerActiveUser runs the full signup/confirm/login flow and returns
// the user ID and an access token.
func (app *testApp) registerActiveUser(t *testing.T, email, password string) (userID, accessToken string) {
	t.Helper()
	userID = app.signUpUser(t, email, password)
	app.confirmUser(t, email, userID)
	accessToken, _ = app.loginUser(t, email, password)
	return userID, accessToken
}

// grantGroup adds the user to a role group directly in the database.
// Callers must log in again afterwards so the token carries the new
// group claim.
func (app *testApp) grantGroup(t *testing.T, userID, groupName string) {
	t.Helper()
	var user models.User
	if err := app.DB.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	group := models.Group{Name: groupName}
	if err := app.DB.Where(models.Group{Name: groupName}).FirstOrCreate(&group).Error; err != nil {
		t.Fatalf("failed to load group %q: %v", groupName, err)
	}
	if err := app.DB.Model(&user).Association("Groups").Append(&group); err != nil {
		t.Fatalf("failed to grant group %q: %v", groupName, err)
	}
}
