package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
	"seedit/internal/services"
)

// KYCHandler handles KYC document requests.
type KYCHandler struct {
	kycService services.KYCServicer
}

// NewKYCHandler creates a new KYCHandler.
func NewKYCHandler(kycService services.KYCServicer) *KYCHandler {
	return &KYCHandler{kycService: kycService}
}

// SubmitDocumentRequest represents a KYC document submission.
type SubmitDocumentRequest struct {
	DocumentType string `json:"document_type" binding:"required,document_type"`
	DocumentURL  string `json:"document_url" binding:"omitempty,url"`
}

// ReviewDocumentRequest carries a reviewer's decision.
type ReviewDocumentRequest struct {
	Approve         bool   `json:"approve"`
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=500"`
}

// SubmitDocument creates a pending document owned by the caller.
func (h *KYCHandler) SubmitDocument(c *gin.Context) {
	sub, err := requireSubject(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	doc, err := h.kycService.SubmitDocument(sub, models.DocumentType(req.DocumentType), req.DocumentURL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// GetDocument returns one document.
func (h *KYCHandler) GetDocument(c *gin.Context) {
	doc, err := h.kycService.GetDocument(subject(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ListOwnDocuments lists the caller's documents.
func (h *KYCHandler) ListOwnDocuments(c *gin.Context) {
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

	docs, err := h.kycService.ListUserDocuments(sub, sub.UserID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// ListPendingDocuments returns the reviewer queue.
func (h *KYCHandler) ListPendingDocuments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	docs, err := h.kycService.ListPendingDocuments(subject(c), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// ReviewDocument records an approve/reject decision.
func (h *KYCHandler) ReviewDocument(c *gin.Context) {
	var req ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	doc, err := h.kycService.ReviewDocument(subject(c), c.Param("id"), req.Approve, req.RejectionReason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
