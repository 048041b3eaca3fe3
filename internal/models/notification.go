package models

// NotificationType is the severity of a notification.
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "INFO"
	NotificationTypeWarning NotificationType = "WARNING"
	NotificationTypeSuccess NotificationType = "SUCCESS"
	NotificationTypeError   NotificationType = "ERROR"
)

// NotificationCategory is the subject area a notification relates to.
type NotificationCategory string

const (
	NotificationCategoryInvestment  NotificationCategory = "INVESTMENT"
	NotificationCategoryKYC         NotificationCategory = "KYC"
	NotificationCategoryTransaction NotificationCategory = "TRANSACTION"
	NotificationCategoryGroup       NotificationCategory = "GROUP"
	NotificationCategorySystem      NotificationCategory = "SYSTEM"
)

// Notification is an owner-only record; no group has access to another
// user's notifications.
type Notification struct {
	Base
	UserID    string               `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string               `gorm:"not null" json:"title"`
	Message   string               `gorm:"not null" json:"message"`
	Type      NotificationType     `gorm:"size:8" json:"type"`
	Category  NotificationCategory `gorm:"size:16" json:"category"`
	IsRead    bool                 `gorm:"default:false" json:"is_read"`
	ActionURL string               `json:"action_url,omitempty"`
}
