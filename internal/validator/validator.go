// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validCurrencies contains ISO 4217 currency codes.
var validCurrencies = map[string]bool{
	"AED": true, "AFN": true, "ALL": true, "AMD": true, "ANG": true,
	"AOA": true, "ARS": true, "AUD": true, "AWG": true, "AZN": true,
	"BAM": true, "BBD": true, "BDT": true, "BGN": true, "BHD": true,
	"BIF": true, "BMD": true, "BND": true, "BOB": true, "BRL": true,
	"BSD": true, "BTN": true, "BWP": true, "BYN": true, "BZD": true,
	"CAD": true, "CDF": true, "CHF": true, "CLP": true, "CNY": true,
	"COP": true, "CRC": true, "CUP": true, "CVE": true, "CZK": true,
	"DJF": true, "DKK": true, "DOP": true, "DZD": true, "EGP": true,
	"ERN": true, "ETB": true, "EUR": true, "FJD": true, "FKP": true,
	"GBP": true, "GEL": true, "GHS": true, "GIP": true, "GMD": true,
	"GNF": true, "GTQ": true, "GYD": true, "HKD": true, "HNL": true,
	"HRK": true, "HTG": true, "HUF": true, "IDR": true, "ILS": true,
	"INR": true, "IQD": true, "IRR": true, "ISK": true, "JMD": true,
	"JOD": true, "JPY": true, "KES": true, "KGS": true, "KHR": true,
	"KMF": true, "KPW": true, "KRW": true, "KWD": true, "KYD": true,
	"KZT": true, "LAK": true, "LBP": true, "LKR": true, "LRD": true,
	"LSL": true, "LYD": true, "MAD": true, "MDL": true, "MGA": true,
	"MKD": true, "MMK": true, "MNT": true, "MOP": true, "MRU": true,
	"MUR": true, "MVR": true, "MWK": true, "MXN": true, "MYR": true,
	"MZN": true, "NAD": true, "NGN": true, "NIO": true, "NOK": true,
	"NPR": true, "NZD": true, "OMR": true, "PAB": true, "PEN": true,
	"PGK": true, "PHP": true, "PKR": true, "PLN": true, "PYG": true,
	"QAR": true, "RON": true, "RSD": true, "RUB": true, "RWF": true,
	"SAR": true, "SBD": true, "SCR": true, "SDG": true, "SEK": true,
	"SGD": true, "SHP": true, "SLE": true, "SOS": true, "SRD": true,
	"SSP": true, "STN": true, "SVC": true, "SYP": true, "SZL": true,
	"THB": true, "TJS": true, "TMT": true, "TND": true, "TOP": true,
	"TRY": true, "TTD": true, "TWD": true, "TZS": true, "UAH": true,
	"UGX": true, "USD": true, "UYU": true, "UZS": true, "VES": true,
	"VND": true, "VUV": true, "WST": true, "XAF": true, "XCD": true,
	"XOF": true, "XPF": true, "YER": true, "ZAR": true, "ZMW": true,
	"ZWL": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("kyc_status", validateKYCStatus)
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("risk_profile", validateRiskProfile)
		_ = v.RegisterValidation("document_type", validateDocumentType)
		_ = v.RegisterValidation("document_status", validateDocumentStatus)
		_ = v.RegisterValidation("fund_type", validateFundType)
		_ = v.RegisterValidation("risk_level", validateRiskLevel)
		_ = v.RegisterValidation("investment_status", validateInvestmentStatus)
		_ = v.RegisterValidation("group_status", validateGroupStatus)
		_ = v.RegisterValidation("membership_status", validateMembershipStatus)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("notification_type", validateNotificationType)
		_ = v.RegisterValidation("notification_category", validateNotificationCategory)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateKYCStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "PENDING", "APPROVED", "REJECTED", "UNDER_REVIEW":
		return true
	}
	return false
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INDIVIDUAL", "CORPORATE":
		return true
	}
	return false
}

func validateRiskProfile(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "CONSERVATIVE", "MODERATE", "AGGRESSIVE":
		return true
	}
	return false
}

func validateDocumentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ID_CARD", "PASSPORT", "DRIVERS_LICENSE", "UTILITY_BILL", "BANK_STATEMENT":
		return true
	}
	return false
}

func validateDocumentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "PENDING", "APPROVED", "REJECTED":
		return true
	}
	return false
}

func validateFundType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "EQUITY", "BOND", "MIXED", "MONEY_MARKET":
		return true
	}
	return false
}

func validateRiskLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "LOW", "MEDIUM", "HIGH":
		return true
	}
	return false
}

func validateInvestmentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ACTIVE", "REDEEMED", "PENDING":
		return true
	}
	return false
}

func validateGroupStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "OPEN", "CLOSED", "ACTIVE", "COMPLETED":
		return true
	}
	return false
}

func validateMembershipStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "PENDING", "ACTIVE", "INACTIVE":
		return true
	}
	return false
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INVESTMENT", "REDEMPTION", "DIVIDEND", "FEE":
		return true
	}
	return false
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "PENDING", "COMPLETED", "FAILED", "CANCELLED":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BANK_TRANSFER", "CARD", "WALLET":
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INFO", "WARNING", "SUCCESS", "ERROR":
		return true
	}
	return false
}

func validateNotificationCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INVESTMENT", "KYC", "TRANSACTION", "GROUP", "SYSTEM":
		return true
	}
	return false
}
