package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "seedit/internal/errors"
	"seedit/internal/services"
)

// UserHandler handles identity administration: group assignment and custom
// attribute updates.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// GroupRequest names a role group.
type GroupRequest struct {
	Group string `json:"group" binding:"required,oneof=admin fund_manager investor kyc_officer"`
}

// AttributesRequest carries the free-form custom attributes.
type AttributesRequest struct {
	KYCStatus   *string `json:"kyc_status" binding:"omitempty,max=64"`
	AccountType *string `json:"account_type" binding:"omitempty,max=64"`
	RiskProfile *string `json:"risk_profile" binding:"omitempty,max=64"`
}

// AssignGroup adds a user to a role group (admin only).
func (h *UserHandler) AssignGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AssignGroup(subject(c), c.Param("userId"), req.Group)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// RemoveGroup removes a user from a role group (admin only).
func (h *UserHandler) RemoveGroup(c *gin.Context) {
	user, err := h.userService.RemoveGroup(subject(c), c.Param("userId"), c.Param("group"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// UpdateOwnAttributes updates the caller's custom attributes.
func (h *UserHandler) UpdateOwnAttributes(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateAttributes(sub.UserID, req.KYCStatus, req.AccountType, req.RiskProfile)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
