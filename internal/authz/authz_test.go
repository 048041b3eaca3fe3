package authz

import (
	"errors"
	"testing"

	apperrors "seedit/internal/errors"
)

func TestDecide(t *testing.T) {
	rules := RuleSet{
		Entity:     "Thing",
		OwnerField: "user_id",
		Grants: []Grant{
			AllowOwner(),
			AllowGroups([]string{GroupAdmin}, OpRead),
		},
	}

	owner := Subject{UserID: "u1"}
	other := Subject{UserID: "u2"}
	admin := Subject{UserID: "u3", Groups: []string{GroupAdmin}}
	guest := Subject{}

	t.Run("owner_full_control", func(t *testing.T) {
		for _, op := range []Operation{OpCreate, OpRead, OpUpdate, OpDelete} {
			if err := rules.Decide(owner, op, "u1"); err != nil {
				t.Errorf("owner denied %s: %v", op, err)
			}
		}
	})

	t.Run("non_owner_denied", func(t *testing.T) {
		for _, op := range []Operation{OpCreate, OpRead, OpUpdate, OpDelete} {
			err := rules.Decide(other, op, "u1")
			if !errors.Is(err, apperrors.ErrForbidden) {
				t.Errorf("expected FORBIDDEN for %s, got %v", op, err)
			}
		}
	})

	t.Run("group_grant_limited_to_listed_ops", func(t *testing.T) {
		if err := rules.Decide(admin, OpRead, "u1"); err != nil {
			t.Errorf("admin denied read: %v", err)
		}
		for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
			err := rules.Decide(admin, op, "u1")
			if !errors.Is(err, apperrors.ErrForbidden) {
				t.Errorf("expected FORBIDDEN for admin %s, got %v", op, err)
			}
		}
	})

	t.Run("guest_unauthenticated", func(t *testing.T) {
		err := rules.Decide(guest, OpRead, "u1")
		if !errors.Is(err, apperrors.ErrUnauthenticated) {
			t.Errorf("expected UNAUTHENTICATED, got %v", err)
		}
	})

	t.Run("owner_grant_never_matches_guest", func(t *testing.T) {
		// A row with an empty owner must not match an identity-less caller.
		err := rules.Decide(guest, OpRead, "")
		if !errors.Is(err, apperrors.ErrUnauthenticated) {
			t.Errorf("expected UNAUTHENTICATED, got %v", err)
		}
	})

	t.Run("empty_owner_denies_everyone", func(t *testing.T) {
		err := rules.Decide(other, OpRead, "")
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("expected FORBIDDEN, got %v", err)
		}
	})
}

func TestDecideGrantDisjunction(t *testing.T) {
	rules := RuleSet{
		Entity: "Fund",
		Grants: []Grant{
			AllowAuthenticated(OpRead),
			AllowGroups([]string{GroupAdmin, GroupFundManager}, OpCreate, OpUpdate, OpDelete),
		},
	}

	investor := Subject{UserID: "u1", Groups: []string{GroupInvestor}}
	manager := Subject{UserID: "u2", Groups: []string{GroupFundManager}}

	t.Run("any_matching_grant_permits", func(t *testing.T) {
		if err := rules.Decide(investor, OpRead, ""); err != nil {
			t.Errorf("authenticated read denied: %v", err)
		}
		if err := rules.Decide(manager, OpCreate, ""); err != nil {
			t.Errorf("manager create denied: %v", err)
		}
		// Manager also reads through the authenticated grant.
		if err := rules.Decide(manager, OpRead, ""); err != nil {
			t.Errorf("manager read denied: %v", err)
		}
	})

	t.Run("no_matching_grant_denies", func(t *testing.T) {
		err := rules.Decide(investor, OpUpdate, "")
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("expected FORBIDDEN, got %v", err)
		}
	})

	t.Run("guest_denied_even_for_read", func(t *testing.T) {
		err := rules.Decide(Subject{}, OpRead, "")
		if !errors.Is(err, apperrors.ErrUnauthenticated) {
			t.Errorf("expected UNAUTHENTICATED, got %v", err)
		}
	})
}

func TestDecideGuestGrant(t *testing.T) {
	rules := RuleSet{
		Entity: "Public",
		Grants: []Grant{
			AllowGuest(OpRead),
			AllowAuthenticated(OpRead, OpCreate),
		},
	}

	t.Run("guest_allowed", func(t *testing.T) {
		if err := rules.Decide(Subject{}, OpRead, ""); err != nil {
			t.Errorf("guest read denied: %v", err)
		}
	})

	t.Run("guest_grant_does_not_cover_authenticated_ops", func(t *testing.T) {
		err := rules.Decide(Subject{}, OpCreate, "")
		if !errors.Is(err, apperrors.ErrUnauthenticated) {
			t.Errorf("expected UNAUTHENTICATED, got %v", err)
		}
	})
}

func TestSubject(t *testing.T) {
	t.Run("zero_value_is_guest", func(t *testing.T) {
		if !(Subject{}).IsGuest() {
			t.Error("expected zero subject to be a guest")
		}
		if (Subject{UserID: "u1"}).IsGuest() {
			t.Error("expected identified subject not to be a guest")
		}
	})

	t.Run("in_any_group", func(t *testing.T) {
		sub := Subject{UserID: "u1", Groups: []string{GroupInvestor, GroupKYCOfficer}}
		if !sub.InAnyGroup(map[string]struct{}{GroupKYCOfficer: {}}) {
			t.Error("expected membership match")
		}
		if sub.InAnyGroup(map[string]struct{}{GroupAdmin: {}}) {
			t.Error("expected no membership match")
		}
	})
}

func TestOpSetDefaultsToFullControl(t *testing.T) {
	g := AllowOwner()
	sub := Subject{UserID: "u1"}
	for _, op := range []Operation{OpCreate, OpRead, OpUpdate, OpDelete} {
		if !g.matches(sub, op, "u1") {
			t.Errorf("expected default grant to cover %s", op)
		}
	}
}
