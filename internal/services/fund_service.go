package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
)

// navScale is the number of decimal places NAV per unit is carried at.
const navScale = 8

// fundService handles investment fund business logic.
type fundService struct {
	db *gorm.DB
}

// NewFundService creates a new FundServicer.
func NewFundService(db *gorm.DB) FundServicer {
	return &fundService{db: db}
}

// CreateFund creates an investable pool. Only admin and fund_manager may
// create funds. Currency defaults to NGN and isActive to true when omitted.
func (s *fundService) CreateFund(sub authz.Subject, input FundInput) (*models.InvestmentFund, error) {
	if err := authz.Can(authz.EntityInvestmentFund, sub, authz.OpCreate, ""); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Fund name is required")
	}
	if input.MinimumInvestment <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Minimum investment must be positive")
	}

	currency := input.Currency
	if currency == "" {
		currency = "NGN"
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	fund := &models.InvestmentFund{
		Name:              input.Name,
		Description:       input.Description,
		FundType:          input.FundType,
		MinimumInvestment: input.MinimumInvestment,
		ManagementFeeBps:  input.ManagementFeeBps,
		PerformanceFeeBps: input.PerformanceFeeBps,
		RiskLevel:         input.RiskLevel,
		Currency:          currency,
		IsActive:          isActive,
		FundManagerID:     sub.UserID,
		TotalValue:        0,
		TotalUnits:        decimal.Zero,
		NavPerUnit:        decimal.NewFromInt(1),
	}
	if err := s.db.Create(fund).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return fund, nil
}

// GetFund returns a fund readable by any authenticated identity.
func (s *fundService) GetFund(sub authz.Subject, fundID string) (*models.InvestmentFund, error) {
	if err := authz.Can(authz.EntityInvestmentFund, sub, authz.OpRead, ""); err != nil {
		return nil, err
	}
	return s.find(s.db, fundID)
}

// ListFunds returns a paginated fund list for any authenticated identity.
func (s *fundService) ListFunds(sub authz.Subject, activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentFund], error) {
	if err := authz.Can(authz.EntityInvestmentFund, sub, authz.OpRead, ""); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.InvestmentFund{})
	if activeOnly {
		base = base.Where("is_active = ?", true)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var funds []models.InvestmentFund
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&funds).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(funds, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// UpdateFund applies writable fund fields for admin/fund_manager.
func (s *fundService) UpdateFund(sub authz.Subject, fundID string, input FundInput) (*models.InvestmentFund, error) {
	if err := authz.Can(authz.EntityInvestmentFund, sub, authz.OpUpdate, ""); err != nil {
		return nil, err
	}
	fund, err := s.find(s.db, fundID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.FundType != "" {
		updates["fund_type"] = input.FundType
	}
	if input.MinimumInvestment > 0 {
		updates["minimum_investment"] = input.MinimumInvestment
	}
	if input.ManagementFeeBps > 0 {
		updates["management_fee_bps"] = input.ManagementFeeBps
	}
	if input.PerformanceFeeBps > 0 {
		updates["performance_fee_bps"] = input.PerformanceFeeBps
	}
	if input.RiskLevel != "" {
		updates["risk_level"] = input.RiskLevel
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := s.db.Model(fund).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return fund, nil
}

// DeleteFund soft-deletes a fund for admin/fund_manager.
func (s *fundService) DeleteFund(sub authz.Subject, fundID string) error {
	if err := authz.Can(authz.EntityInvestmentFund, sub, authz.OpDelete, ""); err != nil {
		return err
	}
	fund, err := s.find(s.db, fundID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(fund).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *fundService) find(db *gorm.DB, fundID string) (*models.InvestmentFund, error) {
	var fund models.InvestmentFund
	if err := db.First(&fund, "id = ?", fundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFundNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &fund, nil
}

// applyFundDelta adjusts a fund's aggregates inside the caller's
// transaction: value in minor units, units as a decimal. It recomputes NAV
// per unit from the new totals, falling back to 1 when the fund is empty.
// Callers must hold a row lock on the fund (SELECT ... FOR UPDATE) to
// avoid lost updates.
func applyFundDelta(tx *gorm.DB, fund *models.InvestmentFund, valueDelta int64, unitsDelta decimal.Decimal) error {
	newValue := fund.TotalValue + valueDelta
	newUnits := fund.TotalUnits.Add(unitsDelta)
	if newValue < 0 || newUnits.IsNegative() {
		return apperrors.ErrInsufficientUnits
	}

	nav := decimal.NewFromInt(1)
	if newUnits.IsPositive() {
		nav = decimal.NewFromInt(newValue).DivRound(newUnits, navScale)
	}

	if err := tx.Model(fund).Updates(map[string]interface{}{
		"total_value":  newValue,
		"total_units":  newUnits,
		"nav_per_unit": nav,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	fund.TotalValue = newValue
	fund.TotalUnits = newUnits
	fund.NavPerUnit = nav
	return nil
}
