package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
)

// kycService handles KYC document business logic.
type kycService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewKYCService creates a new KYCServicer.
func NewKYCService(db *gorm.DB, notifications NotificationServicer) KYCServicer {
	return &kycService{db: db, notifications: notifications}
}

// SubmitDocument creates a pending KYC document owned by the caller.
func (s *kycService) SubmitDocument(sub authz.Subject, docType models.DocumentType, documentURL string) (*models.KYCDocument, error) {
	if err := authz.Can(authz.EntityKYCDocument, sub, authz.OpCreate, sub.UserID); err != nil {
		return nil, err
	}

	doc := &models.KYCDocument{
		UserID:       sub.UserID,
		DocumentType: docType,
		DocumentURL:  documentURL,
		Status:       models.DocumentStatusPending,
		UploadedAt:   time.Now(),
	}
	if err := s.db.Create(doc).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return doc, nil
}

// GetDocument returns a document if the subject may read it.
func (s *kycService) GetDocument(sub authz.Subject, documentID string) (*models.KYCDocument, error) {
	doc, err := s.find(documentID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityKYCDocument, sub, authz.OpRead, doc.UserID); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListUserDocuments returns a user's documents, readable by the owner and by
// reviewer groups.
func (s *kycService) ListUserDocuments(sub authz.Subject, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.KYCDocument], error) {
	if err := authz.Can(authz.EntityKYCDocument, sub, authz.OpRead, userID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.KYCDocument{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var docs []models.KYCDocument
	if err := base.Order("uploaded_at DESC").Scopes(pagination.Paginate(page)).Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(docs, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// ListPendingDocuments returns the review queue. Only reviewer groups may
// list documents across owners.
func (s *kycService) ListPendingDocuments(sub authz.Subject, page pagination.PageRequest) (*pagination.PageResponse[models.KYCDocument], error) {
	if sub.IsGuest() {
		return nil, apperrors.ErrUnauthenticated
	}
	if !sub.InAnyGroup(map[string]struct{}{authz.GroupAdmin: {}, authz.GroupKYCOfficer: {}}) {
		return nil, apperrors.ErrForbidden
	}
	page.Defaults()

	base := s.db.Model(&models.KYCDocument{}).Where("status = ?", models.DocumentStatusPending)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var docs []models.KYCDocument
	if err := base.Order("uploaded_at ASC").Scopes(pagination.Paginate(page)).Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(docs, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// ReviewDocument records an approve/reject decision. Only update-granted
// groups may review; owners cannot approve their own documents unless they
// also hold a reviewer group. Reviewed documents are immutable.
func (s *kycService) ReviewDocument(sub authz.Subject, documentID string, approve bool, rejectionReason string) (*models.KYCDocument, error) {
	doc, err := s.find(documentID)
	if err != nil {
		return nil, err
	}
	if sub.IsGuest() {
		return nil, apperrors.ErrUnauthenticated
	}
	if !sub.InAnyGroup(map[string]struct{}{authz.GroupAdmin: {}, authz.GroupKYCOfficer: {}}) {
		return nil, apperrors.ErrForbidden
	}
	if doc.Status != models.DocumentStatusPending {
		return nil, apperrors.ErrDocumentReviewed
	}
	if !approve && rejectionReason == "" {
		return nil, apperrors.ErrRejectionReason
	}

	status := models.DocumentStatusApproved
	if !approve {
		status = models.DocumentStatusRejected
	}
	now := time.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      status,
			"reviewed_at": &now,
			"reviewed_by": sub.UserID,
		}
		if !approve {
			updates["rejection_reason"] = rejectionReason
		}
		if txErr := tx.Model(doc).Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		// Mirror the decision onto the owner's profile when one exists.
		profileStatus := models.KYCStatusApproved
		if !approve {
			profileStatus = models.KYCStatusRejected
		}
		if txErr := tx.Model(&models.UserProfile{}).
			Where("user_id = ?", doc.UserID).
			Update("kyc_status", profileStatus).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	title := "KYC document approved"
	message := "Your " + string(doc.DocumentType) + " has been approved."
	ntype := models.NotificationTypeSuccess
	if !approve {
		title = "KYC document rejected"
		message = "Your " + string(doc.DocumentType) + " was rejected: " + rejectionReason
		ntype = models.NotificationTypeError
	}
	if err := s.notifications.Notify(doc.UserID, title, message, ntype, models.NotificationCategoryKYC); err != nil {
		return nil, err
	}

	return s.find(documentID)
}

func (s *kycService) find(documentID string) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	if err := s.db.First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &doc, nil
}
