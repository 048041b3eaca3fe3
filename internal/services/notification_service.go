package services

import (
	"errors"

	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
)

// notificationService handles notification business logic. Notifications
// are strictly owner-scoped: no group grant reaches another user's rows.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Notify creates a notification for a user. Called by other services after
// domain events; not exposed over HTTP.
func (s *notificationService) Notify(userID, title, message string, ntype models.NotificationType, category models.NotificationCategory) error {
	n := &models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     ntype,
		Category: category,
	}
	if err := s.db.Create(n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListNotifications lists the caller's own notifications, newest first.
func (s *notificationService) ListNotifications(sub authz.Subject, unreadOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error) {
	if err := authz.Can(authz.EntityNotification, sub, authz.OpRead, sub.UserID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", sub.UserID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *notificationService) MarkRead(sub authz.Subject, notificationID string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.First(&n, "id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := authz.Can(authz.EntityNotification, sub, authz.OpUpdate, n.UserID); err != nil {
		return nil, err
	}

	if err := s.db.Model(&n).Update("is_read", true).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &n, nil
}

// MarkAllRead marks every unread notification of the caller as read.
func (s *notificationService) MarkAllRead(sub authz.Subject) error {
	if err := authz.Can(authz.EntityNotification, sub, authz.OpUpdate, sub.UserID); err != nil {
		return err
	}
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", sub.UserID, false).
		Update("is_read", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
