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

// TransactionHandler handles transaction requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// transactionListQuery holds list filters parsed from query strings.
type transactionListQuery struct {
	pagination.PageRequest
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Type   string     `form:"type" binding:"omitempty,transaction_type"`
	Status string     `form:"status" binding:"omitempty,transaction_status"`
}

// GetTransaction returns one transaction.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransaction(subject(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// ListOwnTransactions lists the caller's transactions with optional filters.
func (h *TransactionHandler) ListOwnTransactions(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{FromDate: query.From, ToDate: query.To}
	if query.Type != "" {
		t := models.TransactionType(query.Type)
		filter.Type = &t
	}
	if query.Status != "" {
		st := models.TransactionStatus(query.Status)
		filter.Status = &st
	}

	txns, err := h.transactionService.ListUserTransactions(sub, sub.UserID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

// ListUserTransactions lists another user's transactions
// (admin/fund_manager).
func (h *TransactionHandler) ListUserTransactions(c *gin.Context) {
	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txns, err := h.transactionService.ListUserTransactions(subject(c), c.Param("userId"), query.PageRequest, services.TransactionFilter{FromDate: query.From, ToDate: query.To})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

// CancelTransaction cancels a pending transaction (owner only).
func (h *TransactionHandler) CancelTransaction(c *gin.Context) {
	txn, err := h.transactionService.CancelTransaction(subject(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}
