package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
	"seedit/internal/uuid"
)

// investmentService handles investment business logic.
type investmentService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, notifications NotificationServicer) InvestmentServicer {
	return &investmentService{db: db, notifications: notifications}
}

// Purchase invests the given amount into a fund for the caller. Units are
// derived from the fund's NAV per unit, and the fund's aggregates and the
// settlement transaction are written in the same database transaction so
// concurrent purchases do not lose updates.
func (s *investmentService) Purchase(sub authz.Subject, fundID string, amount int64, method models.PaymentMethod) (*models.Investment, error) {
	if err := authz.Can(authz.EntityInvestment, sub, authz.OpCreate, sub.UserID); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}

	var investment *models.Investment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var fund models.InvestmentFund
		if txErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fund, "id = ?", fundID).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperrors.ErrFundNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if !fund.IsActive {
			return apperrors.ErrFundInactive
		}
		if amount < fund.MinimumInvestment {
			return apperrors.ErrBelowMinimum
		}

		nav := fund.NavPerUnit
		units := decimal.NewFromInt(amount).DivRound(nav, navScale)

		investment = &models.Investment{
			UserID:         sub.UserID,
			FundID:         fund.ID,
			Units:          units,
			TotalAmount:    amount,
			PurchasePrice:  nav,
			CurrentValue:   amount,
			Status:         models.InvestmentStatusActive,
			InvestmentDate: time.Now(),
		}
		if txErr := tx.Create(investment).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		now := time.Now()
		txn := &models.Transaction{
			UserID:          sub.UserID,
			Type:            models.TransactionTypeInvestment,
			Amount:          amount,
			Currency:        fund.Currency,
			Status:          models.TransactionStatusCompleted,
			Reference:       newReference("INV"),
			Description:     "Investment in " + fund.Name,
			InvestmentID:    &investment.ID,
			PaymentMethod:   method,
			TransactionDate: now,
			CompletedAt:     &now,
		}
		if txErr := tx.Create(txn).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		return applyFundDelta(tx, &fund, amount, units)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifications.Notify(sub.UserID,
		"Investment confirmed",
		fmt.Sprintf("Your investment of %d was processed.", investment.TotalAmount),
		models.NotificationTypeSuccess,
		models.NotificationCategoryInvestment,
	); err != nil {
		return nil, err
	}

	return investment, nil
}

// Redeem redeems a full holding at the fund's current NAV. The holding, the
// redemption transaction, and the fund aggregates move together in one
// database transaction.
func (s *investmentService) Redeem(sub authz.Subject, investmentID string) (*models.Investment, error) {
	investment, err := s.find(investmentID)
	if err != nil {
		return nil, err
	}
	// Redemption mutates the holding, which only the owner may do.
	if err := authz.Can(authz.EntityInvestment, sub, authz.OpUpdate, investment.UserID); err != nil {
		return nil, err
	}
	if investment.Status == models.InvestmentStatusRedeemed {
		return nil, apperrors.ErrAlreadyRedeemed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var fund models.InvestmentFund
		if txErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fund, "id = ?", investment.FundID).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperrors.ErrFundNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		proceeds := investment.Units.Mul(fund.NavPerUnit).Round(0).IntPart()
		now := time.Now()

		// Conditional update so a concurrent redemption of the same holding
		// cannot pay out twice.
		result := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ?", investment.ID, models.InvestmentStatusActive).
			Updates(map[string]interface{}{
				"status":          models.InvestmentStatusRedeemed,
				"current_value":   proceeds,
				"redemption_date": &now,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrAlreadyRedeemed
		}

		txn := &models.Transaction{
			UserID:          investment.UserID,
			Type:            models.TransactionTypeRedemption,
			Amount:          proceeds,
			Currency:        fund.Currency,
			Status:          models.TransactionStatusCompleted,
			Reference:       newReference("RED"),
			Description:     "Redemption from " + fund.Name,
			InvestmentID:    &investment.ID,
			TransactionDate: now,
			CompletedAt:     &now,
		}
		if txErr := tx.Create(txn).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		return applyFundDelta(tx, &fund, -proceeds, investment.Units.Neg())
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifications.Notify(investment.UserID,
		"Redemption processed",
		"Your redemption has been processed.",
		models.NotificationTypeInfo,
		models.NotificationCategoryInvestment,
	); err != nil {
		return nil, err
	}

	return s.find(investmentID)
}

// GetInvestment returns a holding readable by its owner or by
// admin/fund_manager.
func (s *investmentService) GetInvestment(sub authz.Subject, investmentID string) (*models.Investment, error) {
	investment, err := s.find(investmentID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityInvestment, sub, authz.OpRead, investment.UserID); err != nil {
		return nil, err
	}
	return investment, nil
}

// ListUserInvestments lists a user's holdings to the owner or to
// admin/fund_manager.
func (s *investmentService) ListUserInvestments(sub authz.Subject, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	if err := authz.Can(authz.EntityInvestment, sub, authz.OpRead, userID); err != nil {
		return nil, err
	}
	return s.list(s.db.Model(&models.Investment{}).Where("user_id = ?", userID), page)
}

// ListFundInvestments lists all holdings in a fund. Only admin and
// fund_manager hold a cross-owner read grant.
func (s *investmentService) ListFundInvestments(sub authz.Subject, fundID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	if sub.IsGuest() {
		return nil, apperrors.ErrUnauthenticated
	}
	if !sub.InAnyGroup(map[string]struct{}{authz.GroupAdmin: {}, authz.GroupFundManager: {}}) {
		return nil, apperrors.ErrForbidden
	}
	return s.list(s.db.Model(&models.Investment{}).Where("fund_id = ?", fundID), page)
}

func (s *investmentService) list(base *gorm.DB, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Order("investment_date DESC").Scopes(pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

func (s *investmentService) find(investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.First(&investment, "id = ?", investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// newReference builds a unique, human-scannable transaction reference.
func newReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New())
}
