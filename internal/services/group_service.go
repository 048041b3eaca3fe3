package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seedit/internal/authz"
	apperrors "seedit/internal/errors"
	"seedit/internal/models"
	"seedit/internal/pagination"
)

// validGroupTransitions encodes the lifecycle OPEN -> ACTIVE -> COMPLETED,
// with CLOSED reachable from any non-terminal state.
var validGroupTransitions = map[models.GroupStatus][]models.GroupStatus{
	models.GroupStatusOpen:   {models.GroupStatusActive, models.GroupStatusClosed},
	models.GroupStatusActive: {models.GroupStatusCompleted, models.GroupStatusClosed},
}

// groupService handles pooled investment group business logic.
type groupService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewGroupService creates a new GroupServicer.
func NewGroupService(db *gorm.DB, notifications NotificationServicer) GroupServicer {
	return &groupService{db: db, notifications: notifications}
}

// CreateGroup creates an OPEN pooled-contribution group owned by the caller
// and tied to one fund.
func (s *groupService) CreateGroup(sub authz.Subject, input GroupInput) (*models.InvestmentGroup, error) {
	if err := authz.Can(authz.EntityInvestmentGroup, sub, authz.OpCreate, sub.UserID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Group name is required")
	}
	if input.TargetAmount <= 0 || input.MinimumContribution <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount and minimum contribution must be positive")
	}
	if input.MaximumMembers < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Maximum members cannot be negative")
	}

	var fund models.InvestmentFund
	if err := s.db.First(&fund, "id = ?", input.FundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFundNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	group := &models.InvestmentGroup{
		Name:                input.Name,
		Description:         input.Description,
		TargetAmount:        input.TargetAmount,
		MinimumContribution: input.MinimumContribution,
		MaximumMembers:      input.MaximumMembers,
		FundID:              fund.ID,
		CreatorID:           sub.UserID,
		Status:              models.GroupStatusOpen,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
	}
	if err := s.db.Create(group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}

// GetGroup returns a group readable by any authenticated identity.
func (s *groupService) GetGroup(sub authz.Subject, groupID string) (*models.InvestmentGroup, error) {
	group, err := s.find(groupID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityInvestmentGroup, sub, authz.OpRead, group.CreatorID); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns a paginated group list for any authenticated identity.
func (s *groupService) ListGroups(sub authz.Subject, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentGroup], error) {
	if err := authz.Can(authz.EntityInvestmentGroup, sub, authz.OpRead, ""); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.InvestmentGroup{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var groups []models.InvestmentGroup
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(groups, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// UpdateGroupStatus moves a group along its lifecycle. The creator or an
// admin may drive transitions.
func (s *groupService) UpdateGroupStatus(sub authz.Subject, groupID string, status models.GroupStatus) (*models.InvestmentGroup, error) {
	group, err := s.find(groupID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityInvestmentGroup, sub, authz.OpUpdate, group.CreatorID); err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validGroupTransitions[group.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransition,
			fmt.Sprintf("Cannot move group from %s to %s", group.Status, status))
	}

	if err := s.db.Model(group).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}

// JoinGroup adds the caller to an OPEN group with a PENDING membership. The
// member count moves inside the same transaction as the membership row so
// the cap holds under concurrent joins.
func (s *groupService) JoinGroup(sub authz.Subject, groupID string, contribution int64) (*models.GroupMembership, error) {
	if err := authz.Can(authz.EntityGroupMembership, sub, authz.OpCreate, sub.UserID); err != nil {
		return nil, err
	}
	if contribution <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Contribution must be positive")
	}

	var membership *models.GroupMembership
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.InvestmentGroup
		if txErr := tx.First(&group, "id = ?", groupID).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperrors.ErrGroupNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if group.Status != models.GroupStatusOpen {
			return apperrors.ErrGroupNotOpen
		}
		if contribution < group.MinimumContribution {
			return apperrors.ErrBelowContribution
		}
		if group.MaximumMembers > 0 && group.CurrentMembers >= group.MaximumMembers {
			return apperrors.ErrGroupFull
		}

		var count int64
		if txErr := tx.Model(&models.GroupMembership{}).
			Where("group_id = ? AND user_id = ? AND status <> ?", group.ID, sub.UserID, models.MembershipStatusInactive).
			Count(&count).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if count > 0 {
			return apperrors.ErrAlreadyMember
		}

		membership = &models.GroupMembership{
			UserID:             sub.UserID,
			GroupID:            group.ID,
			ContributionAmount: contribution,
			Status:             models.MembershipStatusPending,
			JoinedAt:           time.Now(),
		}
		if txErr := tx.Create(membership).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if txErr := tx.Model(&group).Update("current_members", group.CurrentMembers+1).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// ActivateMembership confirms a pending contribution: the amount is added to
// the group's pool and a settlement transaction is recorded. Reaching the
// target completes an ACTIVE group.
func (s *groupService) ActivateMembership(sub authz.Subject, membershipID string) (*models.GroupMembership, error) {
	membership, err := s.findMembership(membershipID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(authz.EntityGroupMembership, sub, authz.OpUpdate, membership.UserID); err != nil {
		return nil, err
	}
	if membership.Status != models.MembershipStatusPending {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransition, "Membership is not pending")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var group models.InvestmentGroup
		if txErr := tx.First(&group, "id = ?", membership.GroupID).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		// Terminated pools no longer accept money.
		if group.Status == models.GroupStatusCompleted || group.Status == models.GroupStatusClosed {
			return apperrors.ErrGroupTerminated
		}

		if txErr := tx.Model(membership).Update("status", models.MembershipStatusActive).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		newAmount := group.CurrentAmount + membership.ContributionAmount
		updates := map[string]interface{}{"current_amount": newAmount}
		if group.Status == models.GroupStatusActive && newAmount >= group.TargetAmount {
			updates["status"] = models.GroupStatusCompleted
		}
		if txErr := tx.Model(&group).Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		now := time.Now()
		txn := &models.Transaction{
			UserID:          membership.UserID,
			Type:            models.TransactionTypeInvestment,
			Amount:          membership.ContributionAmount,
			Status:          models.TransactionStatusCompleted,
			Reference:       newReference("GRP"),
			Description:     "Contribution to " + group.Name,
			GroupID:         &group.ID,
			TransactionDate: now,
			CompletedAt:     &now,
		}
		if txErr := tx.Create(txn).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifications.Notify(membership.UserID,
		"Contribution confirmed",
		"Your group contribution has been confirmed.",
		models.NotificationTypeSuccess,
		models.NotificationCategoryGroup,
	); err != nil {
		return nil, err
	}

	return s.findMembership(membershipID)
}

// LeaveGroup deactivates a membership. Active contributions are released
// from the group's pool; once the group has completed or closed, members
// can no longer leave.
func (s *groupService) LeaveGroup(sub authz.Subject, membershipID string) error {
	membership, err := s.findMembership(membershipID)
	if err != nil {
		return err
	}
	if err := authz.Can(authz.EntityGroupMembership, sub, authz.OpUpdate, membership.UserID); err != nil {
		return err
	}
	if membership.Status == models.MembershipStatusInactive {
		return nil
	}

	wasActive := membership.Status == models.MembershipStatusActive
	return s.db.Transaction(func(tx *gorm.DB) error {
		var group models.InvestmentGroup
		if txErr := tx.First(&group, "id = ?", membership.GroupID).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		// Once the pool has settled, contributions stay in.
		if group.Status == models.GroupStatusCompleted || group.Status == models.GroupStatusClosed {
			return apperrors.ErrGroupTerminated
		}

		if txErr := tx.Model(membership).Update("status", models.MembershipStatusInactive).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		updates := map[string]interface{}{"current_members": group.CurrentMembers - 1}
		if wasActive {
			updates["current_amount"] = group.CurrentAmount - membership.ContributionAmount
		}
		if txErr := tx.Model(&group).Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
}

// ListMemberships lists a group's memberships. Admins see all rows; other
// callers see only their own membership.
func (s *groupService) ListMemberships(sub authz.Subject, groupID string, page pagination.PageRequest) (*pagination.PageResponse[models.GroupMembership], error) {
	if sub.IsGuest() {
		return nil, apperrors.ErrUnauthenticated
	}
	page.Defaults()

	base := s.db.Model(&models.GroupMembership{}).Where("group_id = ?", groupID)
	if !sub.InAnyGroup(map[string]struct{}{authz.GroupAdmin: {}}) {
		base = base.Where("user_id = ?", sub.UserID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var memberships []models.GroupMembership
	if err := base.Order("joined_at ASC").Scopes(pagination.Paginate(page)).Find(&memberships).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(memberships, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

func (s *groupService) find(groupID string) (*models.InvestmentGroup, error) {
	var group models.InvestmentGroup
	if err := s.db.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

func (s *groupService) findMembership(membershipID string) (*models.GroupMembership, error) {
	var membership models.GroupMembership
	if err := s.db.First(&membership, "id = ?", membershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMembershipNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &membership, nil
}
