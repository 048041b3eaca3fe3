package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus is the lifecycle state of a user's fund holding.
type InvestmentStatus string

const (
	InvestmentStatusActive   InvestmentStatus = "ACTIVE"
	InvestmentStatusRedeemed InvestmentStatus = "REDEEMED"
	InvestmentStatusPending  InvestmentStatus = "PENDING"
)

// Investment links a user to a fund with units purchased at a given price.
// Owner-readable; admin and fund_manager have read access.
type Investment struct {
	Base
	UserID         string           `gorm:"type:uuid;not null;index" json:"user_id"`
	FundID         string           `gorm:"type:uuid;not null;index" json:"fund_id"`
	Units          decimal.Decimal  `gorm:"type:numeric;not null" json:"units"`
	TotalAmount    int64            `gorm:"type:bigint;not null" json:"total_amount"`
	PurchasePrice  decimal.Decimal  `gorm:"type:numeric;not null" json:"purchase_price"`
	CurrentValue   int64            `gorm:"type:bigint" json:"current_value"`
	Status         InvestmentStatus `gorm:"size:16;default:ACTIVE" json:"status"`
	InvestmentDate time.Time        `json:"investment_date"`
	RedemptionDate *time.Time       `json:"redemption_date,omitempty"`

	// Relationships
	Fund InvestmentFund `gorm:"foreignKey:FundID" json:"fund,omitempty"`
}
