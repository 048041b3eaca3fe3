package services

import (
	"errors"

	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
)

// profileService handles user profile business logic.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// CreateProfile creates the caller's one-to-one investor profile.
func (s *profileService) CreateProfile(sub authz.Subject, input ProfileInput) (*models.UserProfile, error) {
	if err := authz.Can(authz.EntityUserProfile, sub, authz.OpCreate, sub.UserID); err != nil {
		return nil, err
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "first name and last name are required")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", sub.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.UserProfile{}).Where("user_id = ?", sub.UserID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateProfile
	}

	profile := &models.UserProfile{
		UserID:      sub.UserID,
		Email:       user.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		DateOfBirth: input.DateOfBirth,
		Address:     input.Address,
		KYCStatus:   models.KYCStatusPending,
		AccountType: input.AccountType,
		RiskProfile: input.RiskProfile,
	}
	if err := s.db.Create(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}

// GetProfile returns the profile for userID if the subject may read it.
func (s *profileService) GetProfile(sub authz.Subject, userID string) (*models.UserProfile, error) {
	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityUserProfile, sub, authz.OpRead, profile.UserID); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies writable profile fields if the subject may update
// the profile (owner, admin, or kyc_officer).
func (s *profileService) UpdateProfile(sub authz.Subject, userID string, input ProfileInput) (*models.UserProfile, error) {
	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityUserProfile, sub, authz.OpUpdate, profile.UserID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.FirstName != "" {
		updates["first_name"] = input.FirstName
	}
	if input.LastName != "" {
		updates["last_name"] = input.LastName
	}
	if input.PhoneNumber != "" {
		updates["phone_number"] = input.PhoneNumber
	}
	if input.DateOfBirth != nil {
		updates["date_of_birth"] = input.DateOfBirth
	}
	if input.Address != "" {
		updates["address"] = input.Address
	}
	if input.AccountType != "" {
		updates["account_type"] = input.AccountType
	}
	if input.RiskProfile != "" {
		updates["risk_profile"] = input.RiskProfile
	}
	if len(updates) > 0 {
		if err := s.db.Model(profile).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return profile, nil
}

// SetKYCStatus updates the profile's KYC status. Reviewer groups reach this
// through the update grant; owners cannot approve themselves because the KYC
// service routes review decisions, not this method, through reviewer checks.
func (s *profileService) SetKYCStatus(sub authz.Subject, userID string, status models.KYCStatus) (*models.UserProfile, error) {
	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityUserProfile, sub, authz.OpUpdate, profile.UserID); err != nil {
		return nil, err
	}
	if err := s.db.Model(profile).Update("kyc_status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}

func (s *profileService) findByUser(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}
