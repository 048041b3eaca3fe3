// Package authz implements the access-control model as a pure, side-effect-
// free evaluator. A rule set per entity is a disjunction of grants: an
// operation is permitted if ANY grant matches the requesting subject. There
// is no deny-overrides rule and no implicit deny beyond "no grant matched."
//
// Rule sets are immutable after construction and safe for concurrent use.
package authz

import (
	apperrors "seedit/internal/errors"
)

// Operation is a requested action on an entity instance.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Subject is the requesting identity. The zero value is an unauthenticated
// guest.
type Subject struct {
	UserID string
	Groups []string
}

// IsGuest reports whether the subject carries no identity.
func (s Subject) IsGuest() bool { return s.UserID == "" }

// InAnyGroup reports whether the subject belongs to at least one of the
// given groups.
func (s Subject) InAnyGroup(groups map[string]struct{}) bool {
	for _, g := range s.Groups {
		if _, ok := groups[g]; ok {
			return true
		}
	}
	return false
}

type grantKind int

const (
	grantOwner grantKind = iota
	grantGroups
	grantAuthenticated
	grantGuest
)

// Grant permits a subject kind a set of operations.
type Grant struct {
	kind   grantKind
	groups map[string]struct{}
	ops    map[Operation]struct{}
}

func opSet(ops []Operation) map[Operation]struct{} {
	if len(ops) == 0 {
		// No explicit list means full control.
		ops = []Operation{OpCreate, OpRead, OpUpdate, OpDelete}
	}
	set := make(map[Operation]struct{}, len(ops))
	for _, op := range ops {
		set[op] = struct{}{}
	}
	return set
}

// AllowOwner grants the owning identity the given operations, or full
// control when none are listed.
func AllowOwner(ops ...Operation) Grant {
	return Grant{kind: grantOwner, ops: opSet(ops)}
}

// AllowGroups grants members of any of the named groups the given
// operations.
func AllowGroups(groups []string, ops ...Operation) Grant {
	set := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		set[g] = struct{}{}
	}
	return Grant{kind: grantGroups, groups: set, ops: opSet(ops)}
}

// AllowAuthenticated grants any non-guest identity the given operations.
func AllowAuthenticated(ops ...Operation) Grant {
	return Grant{kind: grantAuthenticated, ops: opSet(ops)}
}

// AllowGuest grants unauthenticated callers the given operations.
func AllowGuest(ops ...Operation) Grant {
	return Grant{kind: grantGuest, ops: opSet(ops)}
}

// matches reports whether this grant permits the subject to perform op on an
// instance owned by ownerID.
func (g Grant) matches(sub Subject, op Operation, ownerID string) bool {
	if _, ok := g.ops[op]; !ok {
		return false
	}
	switch g.kind {
	case grantOwner:
		return !sub.IsGuest() && ownerID != "" && sub.UserID == ownerID
	case grantGroups:
		return !sub.IsGuest() && sub.InAnyGroup(g.groups)
	case grantAuthenticated:
		return !sub.IsGuest()
	case grantGuest:
		return sub.IsGuest()
	}
	return false
}

// RuleSet is the authorization policy for one entity type. OwnerField names
// the column holding the controlling identity explicitly rather than by
// convention.
type RuleSet struct {
	Entity     string
	OwnerField string
	Grants     []Grant
}

// Decide returns nil if the subject may perform op on an instance owned by
// ownerID. It returns ErrUnauthenticated for guests and ErrForbidden for
// authenticated subjects with no matching grant. For create operations on
// owned entities, ownerID is the owner the instance will be created with.
func (r RuleSet) Decide(sub Subject, op Operation, ownerID string) error {
	for _, g := range r.Grants {
		if g.matches(sub, op, ownerID) {
			return nil
		}
	}
	if sub.IsGuest() {
		return apperrors.ErrUnauthenticated
	}
	return apperrors.ErrForbidden
}
