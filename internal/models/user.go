package models

// Role classifies what a user account may see and do.
type Role string

const (
	// RoleAdmin sees every committee and manages users.
	RoleAdmin Role = "ADMIN"
	// RoleOperator is pinned to a single committee.
	RoleOperator Role = "OPERATOR"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// User represents a registered account.
//
// Invariant: an OPERATOR always has a non-nil CommitteeID. An ADMIN may
// have a nil one (global scope).
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	// CommitteeID is the assigned committee, nil for global-scope admins.
	CommitteeID *int64 `json:"committee_id,omitempty"`

	// CommitteeName is joined in for display; empty when CommitteeID is nil.
	CommitteeName string `json:"committee_name,omitempty"`

	// Active gates login. Inactive accounts keep their rows but cannot
	// authenticate.
	Active bool `json:"active"`
}
