package models

import "time"

// TransactionType is the kind of money movement recorded.
type TransactionType string

const (
	TransactionTypeInvestment TransactionType = "INVESTMENT"
	TransactionTypeRedemption TransactionType = "REDEMPTION"
	TransactionTypeDividend   TransactionType = "DIVIDEND"
	TransactionTypeFee        TransactionType = "FEE"
)

// TransactionStatus is the settlement state of a transaction.
// PENDING transitions to exactly one of COMPLETED, FAILED, or CANCELLED.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// PaymentMethod is how the money moved.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodWallet       PaymentMethod = "WALLET"
)

// Transaction records a money movement, optionally referencing an
// investment or a group. Owner-readable; admin and fund_manager may read.
type Transaction struct {
	Base
	UserID          string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Type            TransactionType   `gorm:"size:16;not null" json:"type"`
	Amount          int64             `gorm:"type:bigint;not null" json:"amount"`
	Currency        string            `gorm:"size:3;default:NGN" json:"currency"`
	Status          TransactionStatus `gorm:"size:16;default:PENDING" json:"status"`
	Reference       string            `gorm:"uniqueIndex" json:"reference,omitempty"`
	Description     string            `json:"description,omitempty"`
	InvestmentID    *string           `gorm:"type:uuid" json:"investment_id,omitempty"`
	GroupID         *string           `gorm:"type:uuid" json:"group_id,omitempty"`
	PaymentMethod   PaymentMethod     `gorm:"size:16" json:"payment_method,omitempty"`
	TransactionDate time.Time         `json:"transaction_date"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}
