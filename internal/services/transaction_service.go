package services

import (
	"errors"

	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
)

// transactionService handles transaction business logic. Settlement rows
// are written by the investment and group services; this service covers
// reads and owner-driven cancellation of pending rows.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// GetTransaction returns a transaction readable by its owner or by
// admin/fund_manager.
func (s *transactionService) GetTransaction(sub authz.Subject, transactionID string) (*models.Transaction, error) {
	txn, err := s.find(transactionID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityTransaction, sub, authz.OpRead, txn.UserID); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListUserTransactions lists a user's transactions to the owner or to
// admin/fund_manager, newest first, with optional filters.
func (s *transactionService) ListUserTransactions(sub authz.Subject, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if err := authz.Can(authz.EntityTransaction, sub, authz.OpRead, userID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("transaction_date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.Transaction
	if err := base.Order("transaction_date DESC").Scopes(pagination.Paginate(page)).Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(txns, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// CancelTransaction cancels a pending transaction. Only the owner may
// cancel; settled rows are immutable.
func (s *transactionService) CancelTransaction(sub authz.Subject, transactionID string) (*models.Transaction, error) {
	txn, err := s.find(transactionID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityTransaction, sub, authz.OpUpdate, txn.UserID); err != nil {
		return nil, err
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, apperrors.ErrTransactionSettled
	}

	if err := s.db.Model(txn).Update("status", models.TransactionStatusCancelled).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txn, nil
}

func (s *transactionService) find(transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.First(&txn, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}
