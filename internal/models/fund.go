package models

import "github.com/shopspring/decimal"

// FundType is the asset-class category of an investment fund.
type FundType string

const (
	FundTypeEquity      FundType = "EQUITY"
	FundTypeBond        FundType = "BOND"
	FundTypeMixed       FundType = "MIXED"
	FundTypeMoneyMarket FundType = "MONEY_MARKET"
)

// RiskLevel is the fund's declared risk rating.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// InvestmentFund is an investable pool managed by admin or fund_manager.
// Readable by any authenticated identity; mutable only by those groups.
//
// Monetary amounts are stored as int64 minor units (kobo for NGN). Unit
// counts and NAV per unit are decimals so aggregate read-modify-writes do
// not accumulate float error.
type InvestmentFund struct {
	Base
	Name              string          `gorm:"not null" json:"name"`
	Description       string          `json:"description,omitempty"`
	FundType          FundType        `gorm:"size:16;not null" json:"fund_type"`
	MinimumInvestment int64           `gorm:"type:bigint;not null" json:"minimum_investment"`
	ManagementFeeBps  int             `json:"management_fee_bps"`
	PerformanceFeeBps int             `json:"performance_fee_bps"`
	RiskLevel         RiskLevel       `gorm:"size:8" json:"risk_level"`
	Currency          string          `gorm:"size:3;default:NGN" json:"currency"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	FundManagerID     string          `gorm:"type:uuid" json:"fund_manager_id,omitempty"`
	TotalValue        int64           `gorm:"type:bigint;not null;default:0" json:"total_value"`
	TotalUnits        decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"total_units"`
	NavPerUnit        decimal.Decimal `gorm:"type:numeric;not null;default:1" json:"nav_per_unit"`
}
