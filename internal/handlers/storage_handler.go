package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/services"
)

// StorageHandler handles storage path access checks and object metadata.
// Routes are mounted behind optional auth so guest grants can apply.
type StorageHandler struct {
	storageService services.StorageServicer
}

// NewStorageHandler creates a new StorageHandler.
func NewStorageHandler(storageService services.StorageServicer) *StorageHandler {
	return &StorageHandler{storageService: storageService}
}

// AccessCheckRequest asks whether the caller may perform a permission on a
// key.
type AccessCheckRequest struct {
	Key        string `json:"key" binding:"required,max=1024"`
	Permission string `json:"permission" binding:"required,oneof=read write delete"`
}

// RecordObjectRequest registers an uploaded object's metadata.
type RecordObjectRequest struct {
	Key         string `json:"key" binding:"required,max=1024"`
	Size        int64  `json:"size" binding:"min=0"`
	ContentType string `json:"content_type" binding:"omitempty,max=255"`
}

// CheckAccess evaluates the storage policy for the caller.
func (h *StorageHandler) CheckAccess(c *gin.Context) {
	var req AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.storageService.Authorize(subject(c), authz.Permission(req.Permission), req.Key); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowed": true, "key": req.Key, "permission": req.Permission})
}

// RecordObject registers object metadata after a write-authorized upload.
func (h *StorageHandler) RecordObject(c *gin.Context) {
	var req RecordObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	obj, err := h.storageService.RecordObject(subject(c), req.Key, req.Size, req.ContentType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, obj)
}

// GetObject returns metadata for a read-authorized key.
func (h *StorageHandler) GetObject(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "key is required"))
		return
	}

	obj, err := h.storageService.GetObject(subject(c), key)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, obj)
}

// DeleteObject removes metadata for a delete-authorized key.
func (h *StorageHandler) DeleteObject(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "key is required"))
		return
	}

	if err := h.storageService.DeleteObject(subject(c), key); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
