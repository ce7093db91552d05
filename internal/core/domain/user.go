package domain

// Role determines the portal, navigation and capability grants of a user.
type Role string

const (
	RoleAdmin                 Role = "admin"
	RoleStakeholder           Role = "stakeholder"
	RoleSubClusterFocalPerson Role = "subClusterFocalPerson"
)

// Roles lists the known roles in display order.
var Roles = []Role{RoleAdmin, RoleSubClusterFocalPerson, RoleStakeholder}

var roleLabels = map[Role]string{
	RoleAdmin:                 "System Administrator",
	RoleStakeholder:           "Stakeholder User",
	RoleSubClusterFocalPerson: "Sub-Cluster Focal Person",
}

// Known reports whether r is one of the roles the system defines.
func (r Role) Known() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the human-readable role name. Unknown roles render as-is.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// ParseImportRole maps a free-form role column to a role. Anything other
// than admin or subClusterFocalPerson becomes stakeholder.
func ParseImportRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleSubClusterFocalPerson:
		return Role(s)
	default:
		return RoleStakeholder
	}
}

// UserStatus marks whether an account may log in.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// Valid reports whether s is active or inactive.
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Toggled returns the opposite status.
func (s UserStatus) Toggled() UserStatus {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// User is an identity record from the user directory.
type User struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status"`
}

// Active reports whether the user may log in.
func (u *User) Active() bool {
	return u != nil && u.Status == StatusActive
}

// Clone returns a copy of u, or nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
