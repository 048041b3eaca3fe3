package authz

// Role group names. The set is fixed and flat; an identity may belong to
// zero or more groups simultaneously.
const (
	GroupAdmin       = "admin"
	GroupFundManager = "fund_manager"
	GroupInvestor    = "investor"
	GroupKYCOfficer  = "kyc_officer"
)

// AllGroups lists every assignable role group.
var AllGroups = []string{GroupAdmin, GroupFundManager, GroupInvestor, GroupKYCOfficer}

// IsKnownGroup reports whether name is one of the fixed role groups.
func IsKnownGroup(name string) bool {
	for _, g := range AllGroups {
		if g == name {
			return true
		}
	}
	return false
}

// Entity names used to look up rule sets.
const (
	EntityUserProfile     = "UserProfile"
	EntityKYCDocument     = "KYCDocument"
	EntityInvestmentFund  = "InvestmentFund"
	EntityInvestment      = "Investment"
	EntityInvestmentGroup = "InvestmentGroup"
	EntityGroupMembership = "GroupMembership"
	EntityTransaction     = "Transaction"
	EntityNotification    = "Notification"
)

// Rules holds the authorization policy for every entity in the data schema.
var Rules = map[string]RuleSet{
	EntityUserProfile: {
		Entity:     EntityUserProfile,
		OwnerField: "user_id",
		Grants: []Grant{
			AllowOwner(),
			AllowGroups([]string{GroupAdmin, GroupKYCOfficer}, OpRead, OpUpdate),
		},
	},
	EntityKYCDocument: {
		Entity:     EntityKYCDocument,
		OwnerField: "user_id",
		Grants: []Grant{
			AllowOwner(),
			AllowGroups([]string{GroupAdmin, GroupKYCOfficer}, OpRead, OpUpdate),
		},
	},
	EntityInvestmentFund: {
		Entity: EntityInvestmentFund,
		Grants: []Grant{
			AllowAuthenticated(OpRead),
			AllowGroups([]string{GroupAdmin, GroupFundManager}, OpCreate, OpUpdate, OpDelete),
		},
	},
	EntityInvestment: {
		Entity:     EntityInvestment,
		OwnerField: "user_id",
		Grants: []Grant{
			AllowOwner(),
			AllowGroups([]string{GroupAdmin, GroupFundManager}, OpRead),
		},
	},
	EntityInvestmentGroup: {
		Entity:     EntityInvestmentGroup,
		OwnerField: "creator_id",
		Grants: []Grant{
			AllowAuthenticated(OpRead),
			AllowOwner(),
			AllowGroups([]string{GroupAdmin}, OpCreate, OpUpdate, OpDelete),
		},
	},
	EntityGroupMembership: {
		Entity:     EntityGroupMembership,
		OwnerField: "user_id",
		Grants: []Grant{
			AllowOwner(),
			AllowGroups([]string{GroupAdmin}, OpRead, OpUpdate),
		},
	},
	EntityTransaction: {
		Entity:     EntityTransaction,
		OwnerField: "user_id",
		Grants: []Grant{
			AllowOwner(),
			AllowGroups([]string{GroupAdmin, GroupFundManager}, OpRead),
		},
	},
	EntityNotification: {
		Entity:     EntityNotification,
		OwnerField: "user_id",
		Grants: []Grant{
			AllowOwner(),
		},
	},
}

// Can evaluates the rule set for the named entity. Unknown entities deny
// everything except for guests, which still map to an authentication error.
func Can(entity string, sub Subject, op Operation, ownerID string) error {
	rules, ok := Rules[entity]
	if !ok {
		return RuleSet{}.Decide(sub, op, ownerID)
	}
	return rules.Decide(sub, op, ownerID)
}
