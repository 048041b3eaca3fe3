package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
	"seedit/internal/services"
)

// InvestmentHandler handles investment requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// PurchaseRequest represents an investment purchase. Amount is minor
// currency units.
type PurchaseRequest struct {
	FundID        string `json:"fund_id" binding:"required,uuid"`
	Amount        int64  `json:"amount" binding:"required,min=1"`
	PaymentMethod string `json:"payment_method" binding:"required,payment_method"`
}

// Purchase invests into a fund for the caller.
func (h *InvestmentHandler) Purchase(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.Purchase(sub, req.FundID, req.Amount, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, investment)
}

// Redeem redeems a holding in full.
func (h *InvestmentHandler) Redeem(c *gin.Context) {
	investment, err := h.investmentService.Redeem(subject(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, investment)
}

// GetInvestment returns one holding.
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	investment, err := h.investmentService.GetInvestment(subject(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, investment)
}

// ListOwnInvestments lists the caller's holdings.
func (h *InvestmentHandler) ListOwnInvestments(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investments, err := h.investmentService.ListUserInvestments(sub, sub.UserID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, investments)
}

// ListFundInvestments lists all holdings in a fund (admin/fund_manager).
func (h *InvestmentHandler) ListFundInvestments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investments, err := h.investmentService.ListFundInvestments(subject(c), c.Param("id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, investments)
}
