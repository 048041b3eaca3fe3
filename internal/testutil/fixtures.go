package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"seedit/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a verified user with a hashed password and unique
// email and phone number.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a verified user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		PhoneNumber: fmt.Sprintf("+23480000%05d", nextID()),
		Password:    string(hash),
		GivenName:   "Test",
		FamilyName:  "User",
		IsVerified:  true,
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserInGroups creates a verified user and assigns the named role
// groups, creating group rows as needed.
func CreateTestUserInGroups(t *testing.T, db *gorm.DB, groups ...string) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	for _, name := range groups {
		group := models.Group{Name: name}
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&group).Error; err != nil {
			t.Fatalf("failed to create test group %q: %v", name, err)
		}
		if err := db.Model(user).Association("Groups").Append(&group); err != nil {
			t.Fatalf("failed to assign group %q: %v", name, err)
		}
	}
	if err := db.Preload("Groups").First(user, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to reload test user: %v", err)
	}
	return user
}

// CreateTestFund creates an active fund with a minimum investment of
// 10,000.00 NGN and a NAV of 1.
func CreateTestFund(t *testing.T, db *gorm.DB) *models.InvestmentFund {
	t.Helper()

	fund := &models.InvestmentFund{
		Name:              fmt.Sprintf("Test Fund %d", nextID()),
		FundType:          models.FundTypeMoneyMarket,
		MinimumInvestment: 1000000,
		RiskLevel:         models.RiskLevelLow,
		Currency:          "NGN",
		IsActive:          true,
		NavPerUnit:        decimal.NewFromInt(1),
	}
	if err := db.Create(fund).Error; err != nil {
		t.Fatalf("failed to create test fund: %v", err)
	}
	return fund
}

// CreateTestInvestment creates an active holding of the given amount at a
// NAV of 1.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID, fundID string, amount int64) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		UserID:         userID,
		FundID:         fundID,
		Units:          decimal.NewFromInt(amount),
		TotalAmount:    amount,
		PurchasePrice:  decimal.NewFromInt(1),
		CurrentValue:   amount,
		Status:         models.InvestmentStatusActive,
		InvestmentDate: time.Now(),
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

// CreateTestGroup creates an open investment group tied to the given fund.
func CreateTestGroup(t *testing.T, db *gorm.DB, creatorID, fundID string) *models.InvestmentGroup {
	t.Helper()

	group := &models.InvestmentGroup{
		Name:                fmt.Sprintf("Test Group %d", nextID()),
		TargetAmount:        10000000,
		MinimumContribution: 500000,
		MaximumMembers:      10,
		FundID:              fundID,
		CreatorID:           creatorID,
		Status:              models.GroupStatusOpen,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestMembership creates a membership row in the given status.
func CreateTestMembership(t *testing.T, db *gorm.DB, userID, groupID string, contribution int64, status models.MembershipStatus) *models.GroupMembership {
	t.Helper()

	membership := &models.GroupMembership{
		UserID:             userID,
		GroupID:            groupID,
		ContributionAmount: contribution,
		Status:             status,
		JoinedAt:           time.Now(),
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}
	return membership
}
