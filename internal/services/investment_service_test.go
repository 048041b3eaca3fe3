package services

import (
	"testing"

	"seedit/internal/authz"
	"seedit/internal/models"
	"seedit/internal/pagination"
	"seedit/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestPurchase(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		notifications := NewNotificationService(db)
		svc := NewInvestmentService(db, notifications)

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)
		sub := authz.Subject{UserID: user.ID, Groups: []string{authz.GroupInvestor}}

		investment, err := svc.Purchase(sub, fund.ID, 2000000, models.PaymentMethodBankTransfer)
		testutil.AssertNoError(t, err)

		// NAV is 1, so units equal the amount.
		if !investment.Units.Equal(decimal.NewFromInt(2000000)) {
			t.Errorf("expected 2000000 units, got %s", investment.Units)
		}
		if investment.Status != models.InvestmentStatusActive {
			t.Errorf("expected ACTIVE status, got %s", investment.Status)
		}

		var fundRow models.InvestmentFund
		testutil.AssertNoError(t, db.First(&fundRow, "id = ?", fund.ID).Error)
		if fundRow.TotalValue != 2000000 {
			t.Errorf("expected fund value 2000000, got %d", fundRow.TotalValue)
		}
		if !fundRow.TotalUnits.Equal(decimal.NewFromInt(2000000)) {
			t.Errorf("expected fund units 2000000, got %s", fundRow.TotalUnits)
		}

		var txn models.Transaction
		testutil.AssertNoError(t, db.First(&txn, "investment_id = ?", investment.ID).Error)
		if txn.Type != models.TransactionTypeInvestment {
			t.Errorf("expected INVESTMENT transaction, got %s", txn.Type)
		}
		if txn.Status != models.TransactionStatusCompleted {
			t.Errorf("expected COMPLETED transaction, got %s", txn.Status)
		}
		if txn.Currency != "NGN" {
			t.Errorf("expected NGN transaction, got %s", txn.Currency)
		}

		var note models.Notification
		testutil.AssertNoError(t, db.First(&note, "user_id = ?", user.ID).Error)
		if note.Category != models.NotificationCategoryInvestment {
			t.Errorf("expected investment notification, got %s", note.Category)
		}
	})

	t.Run("units_follow_nav", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)
		testutil.AssertNoError(t, db.Model(fund).Update("nav_per_unit", decimal.NewFromInt(2)).Error)

		sub := authz.Subject{UserID: user.ID}
		investment, err := svc.Purchase(sub, fund.ID, 3000000, models.PaymentMethodCard)
		testutil.AssertNoError(t, err)

		if !investment.Units.Equal(decimal.NewFromInt(1500000)) {
			t.Errorf("expected 1500000 units at NAV 2, got %s", investment.Units)
		}
		if !investment.PurchasePrice.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected purchase price 2, got %s", investment.PurchasePrice)
		}
	})

	t.Run("below_minimum", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)

		_, err := svc.Purchase(authz.Subject{UserID: user.ID}, fund.ID, fund.MinimumInvestment-1, models.PaymentMethodWallet)
		testutil.AssertAppError(t, err, "BELOW_MINIMUM_INVESTMENT")
	})

	t.Run("inactive_fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)
		testutil.AssertNoError(t, db.Model(fund).Update("is_active", false).Error)

		_, err := svc.Purchase(authz.Subject{UserID: user.ID}, fund.ID, 2000000, models.PaymentMethodWallet)
		testutil.AssertAppError(t, err, "FUND_INACTIVE")
	})

	t.Run("guest_unauthenticated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		fund := testutil.CreateTestFund(t, db)
		_, err := svc.Purchase(authz.Subject{}, fund.ID, 2000000, models.PaymentMethodWallet)
		testutil.AssertAppError(t, err, "UNAUTHENTICATED")
	})
}

func TestRedeem(t *testing.T) {
	t.Run("full_redemption_at_current_nav", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)
		sub := authz.Subject{UserID: user.ID}

		investment, err := svc.Purchase(sub, fund.ID, 2000000, models.PaymentMethodBankTransfer)
		testutil.AssertNoError(t, err)

		redeemed, err := svc.Redeem(sub, investment.ID)
		testutil.AssertNoError(t, err)

		if redeemed.Status != models.InvestmentStatusRedeemed {
			t.Errorf("expected REDEEMED status, got %s", redeemed.Status)
		}
		if redeemed.CurrentValue != 2000000 {
			t.Errorf("expected proceeds 2000000, got %d", redeemed.CurrentValue)
		}
		if redeemed.RedemptionDate == nil {
			t.Error("expected redemption date set")
		}

		var fundRow models.InvestmentFund
		testutil.AssertNoError(t, db.First(&fundRow, "id = ?", fund.ID).Error)
		if fundRow.TotalValue != 0 {
			t.Errorf("expected fund value back to 0, got %d", fundRow.TotalValue)
		}
		if !fundRow.NavPerUnit.Equal(decimal.NewFromInt(1)) {
			t.Errorf("expected empty fund NAV of 1, got %s", fundRow.NavPerUnit)
		}

		var txn models.Transaction
		testutil.AssertNoError(t, db.Where("investment_id = ? AND type = ?",
			investment.ID, models.TransactionTypeRedemption).First(&txn).Error)
		if txn.Amount != 2000000 {
			t.Errorf("expected redemption amount 2000000, got %d", txn.Amount)
		}
	})

	t.Run("double_redemption_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)
		sub := authz.Subject{UserID: user.ID}

		investment, err := svc.Purchase(sub, fund.ID, 2000000, models.PaymentMethodBankTransfer)
		testutil.AssertNoError(t, err)
		_, err = svc.Redeem(sub, investment.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.Redeem(sub, investment.ID)
		testutil.AssertAppError(t, err, "ALREADY_REDEEMED")

		// The holding pays out exactly once: one redemption transaction,
		// and the fund is not drained below zero.
		var redemptions int64
		testutil.AssertNoError(t, db.Model(&models.Transaction{}).
			Where("investment_id = ? AND type = ?", investment.ID, models.TransactionTypeRedemption).
			Count(&redemptions).Error)
		if redemptions != 1 {
			t.Errorf("expected exactly 1 redemption transaction, got %d", redemptions)
		}
		var fundRow models.InvestmentFund
		testutil.AssertNoError(t, db.First(&fundRow, "id = ?", fund.ID).Error)
		if fundRow.TotalValue != 0 {
			t.Errorf("expected fund drained to 0 once, got %d", fundRow.TotalValue)
		}
	})

	t.Run("settled_holding_rejected_even_with_stale_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)
		sub := authz.Subject{UserID: user.ID}

		investment, err := svc.Purchase(sub, fund.ID, 2000000, models.PaymentMethodBankTransfer)
		testutil.AssertNoError(t, err)

		// Settle the row out-of-band, as a concurrent redemption would.
		testutil.AssertNoError(t, db.Model(&models.Investment{}).
			Where("id = ?", investment.ID).
			Update("status", models.InvestmentStatusRedeemed).Error)

		_, err = svc.Redeem(sub, investment.ID)
		testutil.AssertAppError(t, err, "ALREADY_REDEEMED")

		var redemptions int64
		testutil.AssertNoError(t, db.Model(&models.Transaction{}).
			Where("investment_id = ? AND type = ?", investment.ID, models.TransactionTypeRedemption).
			Count(&redemptions).Error)
		if redemptions != 0 {
			t.Errorf("expected no redemption transaction, got %d", redemptions)
		}
	})

	t.Run("only_owner_redeems", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db, NewNotificationService(db))

		user := testutil.CreateTestUser(t, db)
		fund := testutil.CreateTestFund(t, db)

		investment, err := svc.Purchase(authz.Subject{UserID: user.ID}, fund.ID, 2000000, models.PaymentMethodBankTransfer)
		testutil.AssertNoError(t, err)

		// Even fund_manager holds only a read grant on holdings.
		_, err = svc.Redeem(authz.Subject{UserID: "m1", Groups: []string{authz.GroupFundManager}}, investment.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestInvestmentVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentService(db, NewNotificationService(db))

	owner := testutil.CreateTestUser(t, db)
	fund := testutil.CreateTestFund(t, db)
	investment := testutil.CreateTestInvestment(t, db, owner.ID, fund.ID, 2000000)

	t.Run("owner_reads", func(t *testing.T) {
		got, err := svc.GetInvestment(authz.Subject{UserID: owner.ID}, investment.ID)
		testutil.AssertNoError(t, err)
		if got.ID != investment.ID {
			t.Errorf("expected investment %s, got %s", investment.ID, got.ID)
		}
	})

	t.Run("fund_roles_read", func(t *testing.T) {
		for _, group := range []string{authz.GroupAdmin, authz.GroupFundManager} {
			_, err := svc.GetInvestment(authz.Subject{UserID: "staff", Groups: []string{group}}, investment.ID)
			testutil.AssertNoError(t, err)
		}
	})

	t.Run("other_investor_forbidden", func(t *testing.T) {
		_, err := svc.GetInvestment(authz.Subject{UserID: "other", Groups: []string{authz.GroupInvestor}}, investment.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("fund_listing_restricted", func(t *testing.T) {
		resp, err := svc.ListFundInvestments(
			authz.Subject{UserID: "m1", Groups: []string{authz.GroupFundManager}},
			fund.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 1 {
			t.Errorf("expected 1 holding, got %d", resp.TotalItems)
		}

		_, err = svc.ListFundInvestments(
			authz.Subject{UserID: "other", Groups: []string{authz.GroupInvestor}},
			fund.ID, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("own_listing", func(t *testing.T) {
		resp, err := svc.ListUserInvestments(authz.Subject{UserID: owner.ID}, owner.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 1 {
			t.Errorf("expected 1 holding, got %d", resp.TotalItems)
		}
	})
}
