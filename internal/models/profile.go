package models

import "time"

// KYCStatus is the review state of a user's identity verification.
type KYCStatus string

const (
	KYCStatusPending     KYCStatus = "PENDING"
	KYCStatusApproved    KYCStatus = "APPROVED"
	KYCStatusRejected    KYCStatus = "REJECTED"
	KYCStatusUnderReview KYCStatus = "UNDER_REVIEW"
)

// AccountType distinguishes individual from corporate investors.
type AccountType string

const (
	AccountTypeIndividual AccountType = "INDIVIDUAL"
	AccountTypeCorporate  AccountType = "CORPORATE"
)

// RiskProfile is the investor's declared risk appetite.
type RiskProfile string

const (
	RiskProfileConservative RiskProfile = "CONSERVATIVE"
	RiskProfileModerate     RiskProfile = "MODERATE"
	RiskProfileAggressive   RiskProfile = "AGGRESSIVE"
)

// UserProfile is the one-to-one investor profile for an identity. The owner
// may write it; admin and kyc_officer may read and update it.
type UserProfile struct {
	Base
	UserID      string      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Email       string      `gorm:"not null" json:"email"`
	FirstName   string      `gorm:"not null" json:"first_name"`
	LastName    string      `gorm:"not null" json:"last_name"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	DateOfBirth *time.Time  `json:"date_of_birth,omitempty"`
	Address     string      `json:"address,omitempty"`
	KYCStatus   KYCStatus   `gorm:"size:16" json:"kyc_status,omitempty"`
	AccountType AccountType `gorm:"size:16" json:"account_type,omitempty"`
	RiskProfile RiskProfile `gorm:"size:16" json:"risk_profile,omitempty"`
}
