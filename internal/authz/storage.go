package authz

import (
	"strings"

	apperrors "seedit/internal/errors"
)

// Permission is an object-storage operation.
type Permission string

const (
	PermRead   Permission = "read"
	PermWrite  Permission = "write"
	PermDelete Permission = "delete"
)

// Segment in a path pattern that binds the caller's identity id.
const entityIDVar = "{entity_id}"

type pathGrantKind int

const (
	pathGrantIdentity pathGrantKind = iota
	pathGrantGroups
	pathGrantAuthenticated
	pathGrantGuest
)

// PathGrant permits a subject kind a set of permissions on a matched path.
type PathGrant struct {
	kind   pathGrantKind
	groups map[string]struct{}
	perms  map[Permission]struct{}
}

func permSet(perms []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Identity grants permissions only when the caller's own user id equals the
// path's bound {entity_id} segment. Used for personal-data prefixes.
func Identity(perms ...Permission) PathGrant {
	return PathGrant{kind: pathGrantIdentity, perms: permSet(perms)}
}

// PathGroups grants members of any of the named groups the permissions,
// regardless of the bound path variable.
func PathGroups(groups []string, perms ...Permission) PathGrant {
	set := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		set[g] = struct{}{}
	}
	return PathGrant{kind: pathGrantGroups, groups: set, perms: permSet(perms)}
}

// PathAuthenticated grants any non-guest identity the permissions.
func PathAuthenticated(perms ...Permission) PathGrant {
	return PathGrant{kind: pathGrantAuthenticated, perms: permSet(perms)}
}

// PathGuest grants unauthenticated callers the permissions.
func PathGuest(perms ...Permission) PathGrant {
	return PathGrant{kind: pathGrantGuest, perms: permSet(perms)}
}

func (g PathGrant) matches(sub Subject, perm Permission, entityID string) bool {
	if _, ok := g.perms[perm]; !ok {
		return false
	}
	switch g.kind {
	case pathGrantIdentity:
		return !sub.IsGuest() && entityID != "" && sub.UserID == entityID
	case pathGrantGroups:
		return !sub.IsGuest() && sub.InAnyGroup(g.groups)
	case pathGrantAuthenticated:
		return !sub.IsGuest()
	case pathGrantGuest:
		return sub.IsGuest()
	}
	return false
}

// PathRule maps a path pattern to its grant list. Patterns contain literal
// segments, at most one {entity_id} variable, and a trailing * wildcard
// matching one or more remaining segments.
type PathRule struct {
	Pattern string
	Grants  []PathGrant
}

// match reports whether key matches the rule's pattern, and returns the
// value bound to {entity_id} when the pattern has one.
func (r PathRule) match(key string) (entityID string, ok bool) {
	patSegs := strings.Split(r.Pattern, "/")
	keySegs := strings.Split(key, "/")

	for i, seg := range patSegs {
		if seg == "*" {
			// Wildcard must consume at least one segment.
			if i >= len(keySegs) {
				return "", false
			}
			return entityID, true
		}
		if i >= len(keySegs) {
			return "", false
		}
		if seg == entityIDVar {
			if keySegs[i] == "" {
				return "", false
			}
			entityID = keySegs[i]
			continue
		}
		if seg != keySegs[i] {
			return "", false
		}
	}
	return entityID, len(patSegs) == len(keySegs)
}

// StoragePolicy is an ordered list of path rules. The first matching rule
// decides; its grants are evaluated as a disjunction, the same as entity
// rule sets.
type StoragePolicy struct {
	rules []PathRule
}

// NewStoragePolicy builds a policy from ordered rules.
func NewStoragePolicy(rules ...PathRule) StoragePolicy {
	return StoragePolicy{rules: rules}
}

// Authorize returns nil if the subject may perform perm on the object key.
// Keys that match no pattern are denied.
func (p StoragePolicy) Authorize(sub Subject, perm Permission, key string) error {
	for _, rule := range p.rules {
		entityID, ok := rule.match(key)
		if !ok {
			continue
		}
		for _, g := range rule.Grants {
			if g.matches(sub, perm, entityID) {
				return nil
			}
		}
		break
	}
	if sub.IsGuest() {
		return apperrors.ErrUnauthenticated
	}
	return apperrors.ErrForbidden
}

// DefaultStoragePolicy mirrors the platform storage access configuration.
var DefaultStoragePolicy = NewStoragePolicy(
	PathRule{
		Pattern: "kyc-documents/{entity_id}/*",
		Grants: []PathGrant{
			Identity(PermRead, PermWrite, PermDelete),
			PathGroups([]string{GroupAdmin, GroupKYCOfficer}, PermRead),
		},
	},
	PathRule{
		Pattern: "profile-pictures/{entity_id}/*",
		Grants: []PathGrant{
			Identity(PermRead, PermWrite, PermDelete),
			PathAuthenticated(PermRead),
		},
	},
	PathRule{
		Pattern: "fund-documents/*",
		Grants: []PathGrant{
			PathAuthenticated(PermRead),
			PathGroups([]string{GroupAdmin, GroupFundManager}, PermRead, PermWrite, PermDelete),
		},
	},
	PathRule{
		Pattern: "reports/*",
		Grants: []PathGrant{
			PathGroups([]string{GroupAdmin, GroupFundManager}, PermRead, PermWrite, PermDelete),
			PathAuthenticated(PermRead),
		},
	},
	PathRule{
		Pattern: "public/*",
		Grants: []PathGrant{
			PathGuest(PermRead),
			PathAuthenticated(PermRead),
			PathGroups([]string{GroupAdmin}, PermRead, PermWrite, PermDelete),
		},
	},
)
