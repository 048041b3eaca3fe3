package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
	"seedit/internal/services"
)

// GroupHandler handles pooled investment group requests.
type GroupHandler struct {
	groupService services.GroupServicer
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService services.GroupServicer) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest represents a new pooled group. Amounts are minor
// currency units.
type CreateGroupRequest struct {
	Name                string     `json:"name" binding:"required,max=255"`
	Description         string     `json:"description" binding:"omitempty,max=2000"`
	TargetAmount        int64      `json:"target_amount" binding:"required,min=1"`
	MinimumContribution int64      `json:"minimum_contribution" binding:"required,min=1"`
	MaximumMembers      int        `json:"maximum_members" binding:"omitempty,min=1"`
	FundID              string     `json:"fund_id" binding:"required,uuid"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
}

// UpdateGroupStatusRequest moves a group along its lifecycle.
type UpdateGroupStatusRequest struct {
	Status string `json:"status" binding:"required,group_status"`
}

// JoinGroupRequest carries the joining member's contribution.
type JoinGroupRequest struct {
	ContributionAmount int64 `json:"contribution_amount" binding:"required,min=1"`
}

// CreateGroup creates an OPEN group owned by the caller.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.CreateGroup(sub, services.GroupInput{
		Name:                req.Name,
		Description:         req.Description,
		TargetAmount:        req.TargetAmount,
		MinimumContribution: req.MinimumContribution,
		MaximumMembers:      req.MaximumMembers,
		FundID:              req.FundID,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GetGroup returns one group.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.groupService.GetGroup(subject(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// ListGroups returns a paginated group list.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	groups, err := h.groupService.ListGroups(subject(c), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// UpdateGroupStatus moves a group along its lifecycle (creator or admin).
func (h *GroupHandler) UpdateGroupStatus(c *gin.Context) {
	var req UpdateGroupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.UpdateGroupStatus(subject(c), c.Param("id"), models.GroupStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// JoinGroup adds the caller to a group.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	membership, err := h.groupService.JoinGroup(sub, c.Param("id"), req.ContributionAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// ActivateMembership confirms a pending contribution.
func (h *GroupHandler) ActivateMembership(c *gin.Context) {
	membership, err := h.groupService.ActivateMembership(subject(c), c.Param("membershipId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

// LeaveGroup deactivates the caller's membership.
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	if err := h.groupService.LeaveGroup(subject(c), c.Param("membershipId")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMemberships lists a group's memberships.
func (h *GroupHandler) ListMemberships(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	memberships, err := h.groupService.ListMemberships(subject(c), c.Param("id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, memberships)
}
