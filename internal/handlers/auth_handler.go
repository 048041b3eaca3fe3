package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "seedit/internal/errors"
	"seedit/internal/middleware"
	"seedit/internal/models"
	"seedit/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// SignUpRequest represents the registration request payload. Email and
// phone number are both mandatory identifiers.
type SignUpRequest struct {
	Email       string     `json:"email" binding:"required,email,max=255"`
	PhoneNumber string     `json:"phone_number" binding:"required,e164"`
	Password    string     `json:"password" binding:"required,min=8,max=128"`
	GivenName   string     `json:"given_name" binding:"required,max=100"`
	FamilyName  string     `json:"family_name" binding:"required,max=100"`
	Birthdate   *time.Time `json:"birthdate"`
	Address     string     `json:"address" binding:"max=500"`
}

// ConfirmSignUpRequest carries the emailed verification code.
type ConfirmSignUpRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// LoginRequest represents the login request payload. MFACode is required
// only when the account has a multi-factor method enrolled.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	MFACode  string `json:"mfa_code" binding:"omitempty,len=6,numeric"`
}

// RefreshRequest carries a refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TOTPActivateRequest carries the first code from a newly enrolled
// authenticator.
type TOTPActivateRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"phone_number": user.PhoneNumber,
		"given_name":   user.GivenName,
		"family_name":  user.FamilyName,
		"groups":       user.GroupNames(),
		"is_verified":  user.IsVerified,
	}
}

// SignUp registers a new identity and issues an email verification code.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, _, err := h.userService.SignUp(services.SignUpInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		GivenName:   req.GivenName,
		FamilyName:  req.FamilyName,
		Birthdate:   req.Birthdate,
		Address:     req.Address,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userResponse(user)})
}

// ConfirmSignUp verifies the emailed code and activates the account.
func (h *AuthHandler) ConfirmSignUp(c *gin.Context) {
	var req ConfirmSignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ConfirmSignUp(req.Email, req.Code); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

// Login authenticates a user, completes the MFA challenge when one is
// enrolled, and returns an access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if user.MFAMethod != models.MFAMethodNone {
		if req.MFACode == "" {
			respondWithError(c, apperrors.ErrMFARequired)
			return
		}
		if err := h.userService.VerifyMFA(user, req.MFACode); err != nil {
			respondWithError(c, err)
			return
		}
	}

	h.issueTokens(c, user, http.StatusOK)
}

// Refresh rotates a refresh token: the presented token must match the
// stored hash, and a new pair replaces it.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthenticated)
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || storedHash != middleware.HashToken(req.RefreshToken) {
		respondWithError(c, apperrors.ErrUnauthenticated)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.issueTokens(c, user, http.StatusOK)
}

// GetMe returns the authenticated identity.
func (h *AuthHandler) GetMe(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(sub.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// EnrollTOTP starts TOTP enrollment for the caller.
func (h *AuthHandler) EnrollTOTP(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	secret, url, err := h.userService.EnrollTOTP(sub.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": secret, "otpauth_url": url})
}

// ActivateTOTP completes TOTP enrollment with a first valid code.
func (h *AuthHandler) ActivateTOTP(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TOTPActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ActivateTOTP(sub.UserID, req.Code); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "enrolled", "method": models.MFAMethodTOTP})
}

// ChallengeSMS issues an SMS multi-factor code for the caller.
func (h *AuthHandler) ChallengeSMS(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.userService.ChallengeSMS(sub.UserID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "challenge_sent"})
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User, status int) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          userResponse(user),
	})
}
