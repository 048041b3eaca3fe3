package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/identity"
	"seedit/internal/logger"
	"seedit/internal/models"
)

// userService handles identity-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// SignUp registers a new identity. Both email and phone number are mandatory
// identifiers. The returned code must be delivered to the user's email and
// presented to ConfirmSignUp before the account can log in.
func (s *userService) SignUp(input SignUpInput) (*models.User, string, error) {
	if input.Email == "" || input.PhoneNumber == "" {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "email and phone number are required")
	}
	if input.GivenName == "" || input.FamilyName == "" {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "given name and family name are required")
	}
	if err := identity.ValidatePassword(input.Password); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(input.Email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, "", apperrors.ErrDuplicateEmail
	}
	if err := s.db.Model(&models.User{}).Where("phone_number = ?", input.PhoneNumber).Count(&count).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, "", apperrors.ErrDuplicatePhone
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	code, err := identity.NewCode()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:       email,
		PhoneNumber: input.PhoneNumber,
		Password:    string(hashedPassword),
		GivenName:   input.GivenName,
		FamilyName:  input.FamilyName,
		Birthdate:   input.Birthdate,
		Address:     input.Address,
		IsActive:    true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(user).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		vc := &models.VerificationCode{
			UserID:    user.ID,
			Code:      code,
			Purpose:   models.CodePurposeSignup,
			ExpiresAt: time.Now().Add(identity.CodeTTL),
		}
		if txErr := tx.Create(vc).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	subject, _ := identity.VerificationMessage(code)
	logger.Get().Infow("verification email queued", "user_id", user.ID, "subject", subject)

	return user, code, nil
}

// ConfirmSignUp marks the account verified when the presented code matches an
// unexpired, unused sign-up code.
func (s *userService) ConfirmSignUp(email, code string) error {
	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}

	vc, err := s.consumeCode(user.ID, code, models.CodePurposeSignup)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if txErr := tx.Model(vc).Update("used_at", &now).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Model(user).Update("is_verified", true).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
}

// AttemptLogin validates credentials for an active, verified account.
// Callers must still complete an MFA challenge when one is enrolled.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, apperrors.ErrAccountNotVerified
	}

	now := time.Now()
	if err := s.db.Model(user).Update("last_login_at", &now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// VerifyMFA checks a multi-factor code against the user's enrolled method.
func (s *userService) VerifyMFA(user *models.User, code string) error {
	switch user.MFAMethod {
	case models.MFAMethodTOTP:
		if !identity.ValidateTOTP(code, user.TOTPSecret) {
			return apperrors.ErrInvalidMFACode
		}
		return nil
	case models.MFAMethodSMS:
		vc, err := s.consumeCode(user.ID, code, models.CodePurposeMFA)
		if err != nil {
			return apperrors.ErrInvalidMFACode
		}
		now := time.Now()
		if err := s.db.Model(vc).Update("used_at", &now).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	default:
		return apperrors.ErrMFANotEnrolled
	}
}

// ChallengeSMS issues a 6-digit code for an SMS multi-factor challenge.
func (s *userService) ChallengeSMS(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	code, err := identity.NewCode()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	vc := &models.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		Purpose:   models.CodePurposeMFA,
		ExpiresAt: time.Now().Add(identity.CodeTTL),
	}
	if err := s.db.Create(vc).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("sms challenge queued", "user_id", user.ID, "phone", user.PhoneNumber)
	return code, nil
}

// EnrollTOTP generates a TOTP secret for the user. The enrollment is not
// active until ActivateTOTP confirms the user can produce a valid code.
func (s *userService) EnrollTOTP(userID string) (string, string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", "", err
	}
	if user.MFAMethod != models.MFAMethodNone {
		return "", "", apperrors.ErrMFAAlreadyEnrolled
	}

	secret, url, err := identity.NewTOTPSecret(user.Email)
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(user).Update("totp_secret", secret).Error; err != nil {
		return "", "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return secret, url, nil
}

// ActivateTOTP turns on TOTP multi-factor after the user proves possession
// of the enrolled secret.
func (s *userService) ActivateTOTP(userID, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return apperrors.ErrMFANotEnrolled
	}
	if !identity.ValidateTOTP(code, user.TOTPSecret) {
		return apperrors.ErrInvalidMFACode
	}
	if err := s.db.Model(user).Update("mfa_method", models.MFAMethodTOTP).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserByID retrieves a user and their group memberships by ID.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Groups").Where("id = ? AND is_active = ?", id, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.findByEmail(email)
}

// UpdateAttributes updates the free-form custom attributes on the identity.
func (s *userService) UpdateAttributes(userID string, kycStatus, accountType, riskProfile *string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if kycStatus != nil {
		updates["kyc_status"] = *kycStatus
	}
	if accountType != nil {
		updates["account_type"] = *accountType
	}
	if riskProfile != nil {
		updates["risk_profile"] = *riskProfile
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// AssignGroup adds a user to one of the fixed role groups. Only admins may
// assign groups.
func (s *userService) AssignGroup(actor authz.Subject, userID, group string) (*models.User, error) {
	if actor.IsGuest() {
		return nil, apperrors.ErrUnauthenticated
	}
	if !actor.InAnyGroup(map[string]struct{}{authz.GroupAdmin: {}}) {
		return nil, apperrors.ErrForbidden
	}
	if !authz.IsKnownGroup(group) {
		return nil, apperrors.ErrUnknownGroup
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	for _, g := range user.Groups {
		if g.Name == group {
			return user, nil
		}
	}

	g, err := s.ensureGroup(group)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Association("Groups").Append(g); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetUserByID(userID)
}

// RemoveGroup removes a user from a role group. Only admins may do this.
func (s *userService) RemoveGroup(actor authz.Subject, userID, group string) (*models.User, error) {
	if actor.IsGuest() {
		return nil, apperrors.ErrUnauthenticated
	}
	if !actor.InAnyGroup(map[string]struct{}{authz.GroupAdmin: {}}) {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	for i := range user.Groups {
		if user.Groups[i].Name == group {
			if err := s.db.Model(user).Association("Groups").Delete(&user.Groups[i]); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			break
		}
	}
	return s.GetUserByID(userID)
}

// StoreRefreshTokenHash persists the hash of the current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for a user.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

func (s *userService) findByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Groups").
		Where("email = ? AND is_active = ?", strings.ToLower(email), true).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// consumeCode finds a matching, unexpired, unused code for the user.
func (s *userService) consumeCode(userID, code, purpose string) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	err := s.db.Where("user_id = ? AND code = ? AND purpose = ? AND used_at IS NULL", userID, code, purpose).
		Order("created_at DESC").
		First(&vc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCode
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if time.Now().After(vc.ExpiresAt) {
		return nil, apperrors.ErrInvalidCode
	}
	return &vc, nil
}

// ensureGroup returns the group row for name, creating it if missing.
func (s *userService) ensureGroup(name string) (*models.Group, error) {
	var g models.Group
	err := s.db.Where("name = ?", name).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		g = models.Group{Name: name}
		if err := s.db.Create(&g).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &g, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &g, nil
}
