package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
	"seedit/internal/services"
)

// FundHandler handles investment fund requests.
type FundHandler struct {
	fundService services.FundServicer
}

// NewFundHandler creates a new FundHandler.
func NewFundHandler(fundService services.FundServicer) *FundHandler {
	return &FundHandler{fundService: fundService}
}

// FundRequest represents the create/update fund payload. Amounts are minor
// currency units.
type FundRequest struct {
	Name              string `json:"name" binding:"omitempty,max=255"`
	Description       string `json:"description" binding:"omitempty,max=2000"`
	FundType          string `json:"fund_type" binding:"omitempty,fund_type"`
	MinimumInvestment int64  `json:"minimum_investment" binding:"omitempty,min=1"`
	ManagementFeeBps  int    `json:"management_fee_bps" binding:"omitempty,min=0,max=10000"`
	PerformanceFeeBps int    `json:"performance_fee_bps" binding:"omitempty,min=0,max=10000"`
	RiskLevel         string `json:"risk_level" binding:"omitempty,risk_level"`
	Currency          string `json:"currency" binding:"omitempty,iso4217"`
	IsActive          *bool  `json:"is_active"`
}

func (r FundRequest) input() services.FundInput {
	return services.FundInput{
		Name:              r.Name,
		Description:       r.Description,
		FundType:          models.FundType(r.FundType),
		MinimumInvestment: r.MinimumInvestment,
		ManagementFeeBps:  r.ManagementFeeBps,
		PerformanceFeeBps: r.PerformanceFeeBps,
		RiskLevel:         models.RiskLevel(r.RiskLevel),
		Currency:          r.Currency,
		IsActive:          r.IsActive,
	}
}

// CreateFund creates a fund (admin/fund_manager).
func (h *FundHandler) CreateFund(c *gin.Context) {
	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fund, err := h.fundService.CreateFund(subject(c), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fund)
}

// GetFund returns one fund.
func (h *FundHandler) GetFund(c *gin.Context) {
	fund, err := h.fundService.GetFund(subject(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fund)
}

// ListFunds returns a paginated fund list.
func (h *FundHandler) ListFunds(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	activeOnly := c.Query("active") == "true"

	funds, err := h.fundService.ListFunds(subject(c), activeOnly, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, funds)
}

// UpdateFund updates a fund (admin/fund_manager).
func (h *FundHandler) UpdateFund(c *gin.Context) {
	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fund, err := h.fundService.UpdateFund(subject(c), c.Param("id"), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, fund)
}

// DeleteFund soft-deletes a fund (admin/fund_manager).
func (h *FundHandler) DeleteFund(c *gin.Context) {
	if err := h.fundService.DeleteFund(subject(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
