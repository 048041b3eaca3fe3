// Package identity implements the credential policy: password strength,
// sign-up verification codes, and multi-factor (SMS / TOTP) support.
package identity

import (
	"unicode"

	apperrors "seedit/internal/errors"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword enforces the credential policy: minimum length 8 with at
// least one lowercase letter, one uppercase letter, one digit, and one
// special character.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.WithMessage(apperrors.ErrWeakPassword, "Password must be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasLower:
		return apperrors.WithMessage(apperrors.ErrWeakPassword, "Password must contain a lowercase letter")
	case !hasUpper:
		return apperrors.WithMessage(apperrors.ErrWeakPassword, "Password must contain an uppercase letter")
	case !hasDigit:
		return apperrors.WithMessage(apperrors.ErrWeakPassword, "Password must contain a digit")
	case !hasSpecial:
		return apperrors.WithMessage(apperrors.ErrWeakPassword, "Password must contain a special character")
	}
	return nil
}
