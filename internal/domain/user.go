package domain

// UserType classifies a caller. Type assignment happens in the surrounding
// identity layer; this service consumes it read-only.
type UserType string

const (
	// UserTypeBPO is back-office staff; BPO users are not bound to a single payer.
	UserTypeBPO UserType = "bpo"
	// UserTypePayer is a user belonging to one or more payer organizations.
	UserTypePayer UserType = "payer"
	// UserTypePhysician is a network physician portal user.
	UserTypePhysician UserType = "physician"
	// UserTypeVendor is a contracted vendor user.
	UserTypeVendor UserType = "vendor"
)

// UserRole is a capability granted to a user within one payer's scope.
type UserRole string

const (
	UserRoleRead UserRole = "read"
	UserRoleAdd  UserRole = "add"
	UserRoleEdit UserRole = "edit"
)

// RoleAssignment grants a set of roles scoped to a single payer.
type RoleAssignment struct {
	PayerPubID string     `json:"payerPubId"`
	Roles      []UserRole `json:"roles"`
}

// UserContext is the caller identity supplied by the surrounding framework.
type UserContext struct {
	UserPubID   string           `json:"userPubId"`
	Type        UserType         `json:"type"`
	Assignments []RoleAssignment `json:"assignments"`
}

// RolesFor returns the roles the user holds for the given payer.
func (u UserContext) RolesFor(payerPubID string) []UserRole {
	for _, assignment := range u.Assignments {
		if assignment.PayerPubID == payerPubID {
			return assignment.Roles
		}
	}
	return nil
}
