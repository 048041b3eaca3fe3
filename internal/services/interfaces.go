package services

import (
	"time"

	"seedit/internal/authz"
	"seedit/internal/models"
	"seedit/internal/pagination"
)

// SignUpInput carries the attributes collected at registration. Email,
// phone, given name, and family name are mandatory identifiers; birthdate
// and address are optional.
type SignUpInput struct {
	Email       string
	PhoneNumber string
	Password    string
	GivenName   string
	FamilyName  string
	Birthdate   *time.Time
	Address     string
}

// UserServicer defines the contract for identity-related business logic.
type UserServicer interface {
	SignUp(input SignUpInput) (*models.User, string, error)
	ConfirmSignUp(email, code string) error
	AttemptLogin(email, password string) (*models.User, error)
	VerifyMFA(user *models.User, code string) error
	ChallengeSMS(userID string) (string, error)
	EnrollTOTP(userID string) (secret, url string, err error)
	ActivateTOTP(userID, code string) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateAttributes(userID string, kycStatus, accountType, riskProfile *string) (*models.User, error)
	AssignGroup(actor authz.Subject, userID, group string) (*models.User, error)
	RemoveGroup(actor authz.Subject, userID, group string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ProfileInput carries writable profile fields.
type ProfileInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	DateOfBirth *time.Time
	Address     string
	AccountType models.AccountType
	RiskProfile models.RiskProfile
}

// ProfileServicer defines the contract for user profile business logic.
type ProfileServicer interface {
	CreateProfile(sub authz.Subject, input ProfileInput) (*models.UserProfile, error)
	GetProfile(sub authz.Subject, userID string) (*models.UserProfile, error)
	UpdateProfile(sub authz.Subject, userID string, input ProfileInput) (*models.UserProfile, error)
	SetKYCStatus(sub authz.Subject, userID string, status models.KYCStatus) (*models.UserProfile, error)
}

// KYCServicer defines the contract for KYC document business logic.
type KYCServicer interface {
	SubmitDocument(sub authz.Subject, docType models.DocumentType, documentURL string) (*models.KYCDocument, error)
	GetDocument(sub authz.Subject, documentID string) (*models.KYCDocument, error)
	ListUserDocuments(sub authz.Subject, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.KYCDocument], error)
	ListPendingDocuments(sub authz.Subject, page pagination.PageRequest) (*pagination.PageResponse[models.KYCDocument], error)
	ReviewDocument(sub authz.Subject, documentID string, approve bool, rejectionReason string) (*models.KYCDocument, error)
}

// FundInput carries writable fund fields.
type FundInput struct {
	Name              string
	Description       string
	FundType          models.FundType
	MinimumInvestment int64
	ManagementFeeBps  int
	PerformanceFeeBps int
	RiskLevel         models.RiskLevel
	Currency          string
	IsActive          *bool
}

// FundServicer defines the contract for investment fund business logic.
type FundServicer interface {
	CreateFund(sub authz.Subject, input FundInput) (*models.InvestmentFund, error)
	GetFund(sub authz.Subject, fundID string) (*models.InvestmentFund, error)
	ListFunds(sub authz.Subject, activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentFund], error)
	UpdateFund(sub authz.Subject, fundID string, input FundInput) (*models.InvestmentFund, error)
	DeleteFund(sub authz.Subject, fundID string) error
}

// InvestmentServicer defines the contract for investment business logic.
type InvestmentServicer interface {
	Purchase(sub authz.Subject, fundID string, amount int64, method models.PaymentMethod) (*models.Investment, error)
	Redeem(sub authz.Subject, investmentID string) (*models.Investment, error)
	GetInvestment(sub authz.Subject, investmentID string) (*models.Investment, error)
	ListUserInvestments(sub authz.Subject, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	ListFundInvestments(sub authz.Subject, fundID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
}

// GroupInput carries writable investment group fields.
type GroupInput struct {
	Name                string
	Description         string
	TargetAmount        int64
	MinimumContribution int64
	MaximumMembers      int
	FundID              string
	StartDate           *time.Time
	EndDate             *time.Time
}

// GroupServicer defines the contract for pooled investment group logic.
type GroupServicer interface {
	CreateGroup(sub authz.Subject, input GroupInput) (*models.InvestmentGroup, error)
	GetGroup(sub authz.Subject, groupID string) (*models.InvestmentGroup, error)
	ListGroups(sub authz.Subject, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentGroup], error)
	UpdateGroupStatus(sub authz.Subject, groupID string, status models.GroupStatus) (*models.InvestmentGroup, error)
	JoinGroup(sub authz.Subject, groupID string, contribution int64) (*models.GroupMembership, error)
	ActivateMembership(sub authz.Subject, membershipID string) (*models.GroupMembership, error)
	LeaveGroup(sub authz.Subject, membershipID string) error
	ListMemberships(sub authz.Subject, groupID string, page pagination.PageRequest) (*pagination.PageResponse[models.GroupMembership], error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Status   *models.TransactionStatus
}

// TransactionServicer defines the contract for transaction business logic.
type TransactionServicer interface {
	GetTransaction(sub authz.Subject, transactionID string) (*models.Transaction, error)
	ListUserTransactions(sub authz.Subject, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	CancelTransaction(sub authz.Subject, transactionID string) (*models.Transaction, error)
}

// NotificationServicer defines the contract for notification business logic.
type NotificationServicer interface {
	Notify(userID, title, message string, ntype models.NotificationType, category models.NotificationCategory) error
	ListNotifications(sub authz.Subject, unreadOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	MarkRead(sub authz.Subject, notificationID string) (*models.Notification, error)
	MarkAllRead(sub authz.Subject) error
}

// StorageServicer defines the contract for storage access decisions and
// object metadata tracking.
type StorageServicer interface {
	Authorize(sub authz.Subject, perm authz.Permission, key string) error
	RecordObject(sub authz.Subject, key string, size int64, contentType string) (*models.StorageObject, error)
	GetObject(sub authz.Subject, key string) (*models.StorageObject, error)
	DeleteObject(sub authz.Subject, key string) error
}
