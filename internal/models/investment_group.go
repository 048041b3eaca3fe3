package models

import "time"

// GroupStatus is the lifecycle state of a pooled investment group.
// OPEN groups accept members; ACTIVE groups are invested; COMPLETED groups
// have reached their target; CLOSED groups were shut before completion.
type GroupStatus string

const (
	GroupStatusOpen      GroupStatus = "OPEN"
	GroupStatusClosed    GroupStatus = "CLOSED"
	GroupStatusActive    GroupStatus = "ACTIVE"
	GroupStatusCompleted GroupStatus = "COMPLETED"
)

// InvestmentGroup is a pooled-contribution vehicle tied to one fund.
// Readable by any authenticated identity; the creator owns it; admin has
// full control.
type InvestmentGroup struct {
	Base
	Name                string      `gorm:"not null" json:"name"`
	Description         string      `json:"description,omitempty"`
	TargetAmount        int64       `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount       int64       `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	MinimumContribution int64       `gorm:"type:bigint;not null" json:"minimum_contribution"`
	MaximumMembers      int         `json:"maximum_members,omitempty"`
	CurrentMembers      int         `gorm:"default:0" json:"current_members"`
	FundID              string      `gorm:"type:uuid;not null;index" json:"fund_id"`
	CreatorID           string      `gorm:"type:uuid;not null" json:"creator_id"`
	Status              GroupStatus `gorm:"size:16;default:OPEN" json:"status"`
	StartDate           *time.Time  `json:"start_date,omitempty"`
	EndDate             *time.Time  `json:"end_date,omitempty"`

	// Relationships
	Fund        InvestmentFund    `gorm:"foreignKey:FundID" json:"fund,omitempty"`
	Memberships []GroupMembership `gorm:"foreignKey:GroupID" json:"memberships,omitempty"`
}

// MembershipStatus is the state of a user's membership in a group.
type MembershipStatus string

const (
	MembershipStatusPending  MembershipStatus = "PENDING"
	MembershipStatusActive   MembershipStatus = "ACTIVE"
	MembershipStatusInactive MembershipStatus = "INACTIVE"
)

// GroupMembership links a user to an investment group with a contribution.
// Owner-controlled; admin may read and update.
type GroupMembership struct {
	Base
	UserID             string           `gorm:"type:uuid;not null;index" json:"user_id"`
	GroupID            string           `gorm:"type:uuid;not null;index" json:"group_id"`
	ContributionAmount int64            `gorm:"type:bigint;not null" json:"contribution_amount"`
	Status             MembershipStatus `gorm:"size:16;default:PENDING" json:"status"`
	JoinedAt           time.Time        `json:"joined_at"`

	// Relationships
	Group InvestmentGroup `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
