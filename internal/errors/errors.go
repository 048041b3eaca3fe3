// Package errors provides custom error types for the SeedIt API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthenticated    = &AppError{Code: "UNAUTHENTICATED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountNotVerified = &AppError{Code: "ACCOUNT_NOT_VERIFIED", Message: "Account has not been verified", StatusCode: http.StatusForbidden}
	ErrMFARequired        = &AppError{Code: "MFA_REQUIRED", Message: "Multi-factor code required", StatusCode: http.StatusUnauthorized}
	ErrInvalidMFACode     = &AppError{Code: "INVALID_MFA_CODE", Message: "Invalid multi-factor code", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail     = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrDuplicatePhone     = &AppError{Code: "DUPLICATE_PHONE", Message: "A user with this phone number already exists", StatusCode: http.StatusConflict}
	ErrWeakPassword       = &AppError{Code: "WEAK_PASSWORD", Message: "Password does not meet the minimum requirements", StatusCode: http.StatusBadRequest}
	ErrInvalidCode        = &AppError{Code: "INVALID_CODE", Message: "Verification code is invalid or expired", StatusCode: http.StatusBadRequest}
	ErrUnknownGroup       = &AppError{Code: "UNKNOWN_GROUP", Message: "Unknown role group", StatusCode: http.StatusBadRequest}
	ErrProfileNotFound    = &AppError{Code: "PROFILE_NOT_FOUND", Message: "User profile not found", StatusCode: http.StatusNotFound}
	ErrDuplicateProfile   = &AppError{Code: "DUPLICATE_PROFILE", Message: "A profile already exists for this user", StatusCode: http.StatusConflict}
	ErrMFANotEnrolled     = &AppError{Code: "MFA_NOT_ENROLLED", Message: "No multi-factor method is enrolled", StatusCode: http.StatusBadRequest}
	ErrMFAAlreadyEnrolled = &AppError{Code: "MFA_ALREADY_ENROLLED", Message: "A multi-factor method is already enrolled", StatusCode: http.StatusConflict}
)

// KYC errors.
var (
	ErrDocumentNotFound = &AppError{Code: "DOCUMENT_NOT_FOUND", Message: "KYC document not found", StatusCode: http.StatusNotFound}
	ErrDocumentReviewed = &AppError{Code: "DOCUMENT_REVIEWED", Message: "KYC document has already been reviewed", StatusCode: http.StatusConflict}
	ErrRejectionReason  = &AppError{Code: "REJECTION_REASON_REQUIRED", Message: "A rejection reason is required", StatusCode: http.StatusBadRequest}
)

// Fund errors.
var (
	ErrFundNotFound = &AppError{Code: "FUND_NOT_FOUND", Message: "Investment fund not found", StatusCode: http.StatusNotFound}
	ErrFundInactive = &AppError{Code: "FUND_INACTIVE", Message: "Investment fund is not open for investment", StatusCode: http.StatusBadRequest}
)

// Investment errors.
var (
	ErrInvestmentNotFound = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
	ErrBelowMinimum       = &AppError{Code: "BELOW_MINIMUM_INVESTMENT", Message: "Amount is below the fund's minimum investment", StatusCode: http.StatusBadRequest}
	ErrInsufficientUnits  = &AppError{Code: "INSUFFICIENT_UNITS", Message: "Insufficient units for this redemption", StatusCode: http.StatusBadRequest}
	ErrAlreadyRedeemed    = &AppError{Code: "ALREADY_REDEEMED", Message: "Investment has already been redeemed", StatusCode: http.StatusConflict}
)

// Investment group errors.
var (
	ErrGroupNotFound      = &AppError{Code: "GROUP_NOT_FOUND", Message: "Investment group not found", StatusCode: http.StatusNotFound}
	ErrGroupNotOpen       = &AppError{Code: "GROUP_NOT_OPEN", Message: "Investment group is not open for new members", StatusCode: http.StatusBadRequest}
	ErrGroupFull          = &AppError{Code: "GROUP_FULL", Message: "Investment group has reached its member limit", StatusCode: http.StatusConflict}
	ErrAlreadyMember      = &AppError{Code: "ALREADY_MEMBER", Message: "User is already a member of this group", StatusCode: http.StatusConflict}
	ErrGroupTerminated    = &AppError{Code: "GROUP_TERMINATED", Message: "Investment group has been completed or closed", StatusCode: http.StatusConflict}
	ErrMembershipNotFound = &AppError{Code: "MEMBERSHIP_NOT_FOUND", Message: "Group membership not found", StatusCode: http.StatusNotFound}
	ErrBelowContribution  = &AppError{Code: "BELOW_MINIMUM_CONTRIBUTION", Message: "Amount is below the group's minimum contribution", StatusCode: http.StatusBadRequest}
	ErrInvalidTransition  = &AppError{Code: "INVALID_STATUS_TRANSITION", Message: "Invalid status transition", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrTransactionSettled  = &AppError{Code: "TRANSACTION_SETTLED", Message: "Transaction is no longer pending", StatusCode: http.StatusConflict}
)

// Notification errors.
var (
	ErrNotificationNotFound = &AppError{Code: "NOTIFICATION_NOT_FOUND", Message: "Notification not found", StatusCode: http.StatusNotFound}
)

// Storage errors.
var (
	ErrObjectNotFound = &AppError{Code: "OBJECT_NOT_FOUND", Message: "Stored object not found", StatusCode: http.StatusNotFound}
)
