package services

import (
	"testing"

	"seedit/internal/authz"
	"seedit/internal/models"
	"seedit/internal/pagination"
	"seedit/internal/testutil"
)

func managerSubject(id string) authz.Subject {
	return authz.Subject{UserID: id, Groups: []string{authz.GroupFundManager}}
}

func investorSubject(id string) authz.Subject {
	return authz.Subject{UserID: id, Groups: []string{authz.GroupInvestor}}
}

func TestCreateFund(t *testing.T) {
	t.Run("defaults_applied", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		fund, err := svc.CreateFund(managerSubject("m1"), FundInput{
			Name:              "Naira Money Market",
			FundType:          models.FundTypeMoneyMarket,
			MinimumInvestment: 1000000,
			RiskLevel:         models.RiskLevelLow,
		})
		testutil.AssertNoError(t, err)

		if fund.Currency != "NGN" {
			t.Errorf("expected default currency NGN, got %s", fund.Currency)
		}
		if !fund.IsActive {
			t.Error("expected fund to default to active")
		}
		if !fund.NavPerUnit.Equal(fund.NavPerUnit.Round(0)) || fund.NavPerUnit.IntPart() != 1 {
			t.Errorf("expected NAV per unit 1, got %s", fund.NavPerUnit)
		}
		if fund.FundManagerID != "m1" {
			t.Errorf("expected manager m1, got %s", fund.FundManagerID)
		}
	})

	t.Run("explicit_inactive_respected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		inactive := false
		fund, err := svc.CreateFund(managerSubject("m1"), FundInput{
			Name:              "Closed Fund",
			FundType:          models.FundTypeBond,
			MinimumInvestment: 100,
			IsActive:          &inactive,
		})
		testutil.AssertNoError(t, err)
		if fund.IsActive {
			t.Error("expected fund to be inactive")
		}
	})

	t.Run("investor_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		_, err := svc.CreateFund(investorSubject("u1"), FundInput{
			Name:              "Sneaky Fund",
			FundType:          models.FundTypeEquity,
			MinimumInvestment: 100,
		})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("missing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		_, err := svc.CreateFund(managerSubject("m1"), FundInput{MinimumInvestment: 100})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestGetAndListFunds(t *testing.T) {
	t.Run("authenticated_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		fund := testutil.CreateTestFund(t, db)
		got, err := svc.GetFund(investorSubject("u1"), fund.ID)
		testutil.AssertNoError(t, err)
		if got.ID != fund.ID {
			t.Errorf("expected fund %s, got %s", fund.ID, got.ID)
		}
	})

	t.Run("guest_unauthenticated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		fund := testutil.CreateTestFund(t, db)
		_, err := svc.GetFund(authz.Subject{}, fund.ID)
		testutil.AssertAppError(t, err, "UNAUTHENTICATED")
	})

	t.Run("active_only_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		testutil.CreateTestFund(t, db)
		inactive := testutil.CreateTestFund(t, db)
		testutil.AssertNoError(t, db.Model(inactive).Update("is_active", false).Error)

		resp, err := svc.ListFunds(investorSubject("u1"), true, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 1 {
			t.Errorf("expected 1 active fund, got %d", resp.TotalItems)
		}

		resp, err = svc.ListFunds(investorSubject("u1"), false, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 2 {
			t.Errorf("expected 2 funds, got %d", resp.TotalItems)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		_, err := svc.GetFund(investorSubject("u1"), "missing")
		testutil.AssertAppError(t, err, "FUND_NOT_FOUND")
	})
}

func TestUpdateAndDeleteFund(t *testing.T) {
	t.Run("manager_updates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		fund := testutil.CreateTestFund(t, db)
		inactive := false
		updated, err := svc.UpdateFund(managerSubject("m1"), fund.ID, FundInput{
			Name:     "Renamed Fund",
			IsActive: &inactive,
		})
		testutil.AssertNoError(t, err)
		if updated.Name != "Renamed Fund" {
			t.Errorf("expected renamed fund, got %s", updated.Name)
		}
		if updated.IsActive {
			t.Error("expected fund deactivated")
		}
	})

	t.Run("investor_cannot_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		fund := testutil.CreateTestFund(t, db)
		_, err := svc.UpdateFund(investorSubject("u1"), fund.ID, FundInput{Name: "Nope"})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("delete_soft_removes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		fund := testutil.CreateTestFund(t, db)
		testutil.AssertNoError(t, svc.DeleteFund(managerSubject("m1"), fund.ID))

		_, err := svc.GetFund(managerSubject("m1"), fund.ID)
		testutil.AssertAppError(t, err, "FUND_NOT_FOUND")

		var count int64
		testutil.AssertNoError(t, db.Unscoped().Model(&models.InvestmentFund{}).
			Where("id = ?", fund.ID).Count(&count).Error)
		if count != 1 {
			t.Error("expected soft-deleted row to remain")
		}
	})

	t.Run("investor_cannot_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		fund := testutil.CreateTestFund(t, db)
		testutil.AssertAppError(t, svc.DeleteFund(investorSubject("u1"), fund.ID), "FORBIDDEN")
	})
}
