package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/services"
)

// ProfileHandler handles user profile requests.
type ProfileHandler struct {
	profileService services.ProfileServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest represents the create/update profile payload.
type ProfileRequest struct {
	FirstName   string     `json:"first_name" binding:"omitempty,max=100"`
	LastName    string     `json:"last_name" binding:"omitempty,max=100"`
	PhoneNumber string     `json:"phone_number" binding:"omitempty,e164"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address" binding:"omitempty,max=500"`
	AccountType string     `json:"account_type" binding:"omitempty,account_type"`
	RiskProfile string     `json:"risk_profile" binding:"omitempty,risk_profile"`
}

func (r ProfileRequest) input() services.ProfileInput {
	return services.ProfileInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		DateOfBirth: r.DateOfBirth,
		Address:     r.Address,
		AccountType: models.AccountType(r.AccountType),
		RiskProfile: models.RiskProfile(r.RiskProfile),
	}
}

// CreateProfile creates the caller's investor profile.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.CreateProfile(sub, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetOwnProfile returns the caller's profile.
func (h *ProfileHandler) GetOwnProfile(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(sub, sub.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile returns another user's profile for reviewer groups.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(sub, c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates a profile (owner, admin, or kyc_officer).
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.UpdateProfile(sub, c.Param("userId"), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
