package models

import "time"

// MFAMethod is the multi-factor method enrolled for a user.
type MFAMethod string

const (
	MFAMethodNone MFAMethod = ""
	MFAMethodSMS  MFAMethod = "SMS"
	MFAMethodTOTP MFAMethod = "TOTP"
)

// User represents an identity in the system. Email and phone number are both
// mandatory sign-in identifiers; group membership is assigned out-of-band by
// an admin.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber string     `gorm:"uniqueIndex;not null" json:"phone_number"`
	Password    string     `gorm:"not null" json:"-"`
	GivenName   string     `gorm:"not null" json:"given_name"`
	FamilyName  string     `gorm:"not null" json:"family_name"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	Address     string     `json:"address,omitempty"`

	// Custom attributes, free-form strings mirroring the identity provider's
	// custom:* attributes.
	KYCStatus   string `json:"kyc_status,omitempty"`
	AccountType string `json:"account_type,omitempty"`
	RiskProfile string `json:"risk_profile,omitempty"`

	// Sign-up verification
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	// Multi-factor authentication (optional per identity)
	MFAMethod  MFAMethod `gorm:"size:8" json:"mfa_method,omitempty"`
	TOTPSecret string    `json:"-"`

	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Groups []Group `gorm:"many2many:user_groups" json:"groups,omitempty"`
}

// GroupNames returns the names of the user's role groups.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}

// Group is a named role assignable to identities. The set of groups is fixed
// and flat; there is no inheritance between them.
type Group struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// VerificationCode is a single-use numeric code delivered out-of-band to
// confirm a sign-up or satisfy an SMS multi-factor challenge.
type VerificationCode struct {
	Base
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Code      string     `gorm:"size:6;not null" json:"-"`
	Purpose   string     `gorm:"size:16;not null" json:"purpose"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// Verification code purposes.
const (
	CodePurposeSignup = "signup"
	CodePurposeMFA    = "mfa"
)
