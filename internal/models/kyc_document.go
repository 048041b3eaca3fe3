package models

import "time"

// DocumentType is the kind of identity document submitted for KYC review.
type DocumentType string

const (
	DocumentTypeIDCard         DocumentType = "ID_CARD"
	DocumentTypePassport       DocumentType = "PASSPORT"
	DocumentTypeDriversLicense DocumentType = "DRIVERS_LICENSE"
	DocumentTypeUtilityBill    DocumentType = "UTILITY_BILL"
	DocumentTypeBankStatement  DocumentType = "BANK_STATEMENT"
)

// DocumentStatus is the review state of a KYC document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusApproved DocumentStatus = "APPROVED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// KYCDocument is a document submitted by a user for identity verification.
// The owner creates and reads it; admin and kyc_officer review it.
type KYCDocument struct {
	Base
	UserID          string         `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentType    DocumentType   `gorm:"size:32;not null" json:"document_type"`
	DocumentURL     string         `json:"document_url,omitempty"`
	Status          DocumentStatus `gorm:"size:16;default:PENDING" json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	UploadedAt      time.Time      `json:"uploaded_at"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	ReviewedBy      string         `gorm:"type:uuid" json:"reviewed_by,omitempty"`
}
