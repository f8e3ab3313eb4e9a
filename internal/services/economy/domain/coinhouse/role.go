package coinhouse

import "strings"

// HolderRole is a totally ordered permission level on a coinhouse account.
// The declaration order is the permission order: each role may do whatever
// the roles below it may do.
type HolderRole int

const (
	// RoleUnspecified represents an invalid role value.
	RoleUnspecified HolderRole = iota
	// RoleViewer may inspect the account.
	RoleViewer
	// RoleAuthorizedUser may move funds within configured limits.
	RoleAuthorizedUser
	// RoleJointOwner may manage holders but not the ownership itself.
	RoleJointOwner
	// RoleOwner holds the account; every account keeps at least one.
	RoleOwner
)

// String returns the canonical role label.
func (r HolderRole) String() string {
	switch r {
	case RoleViewer:
		return "viewer"
	case RoleAuthorizedUser:
		return "authorized_user"
	case RoleJointOwner:
		return "joint_owner"
	case RoleOwner:
		return "owner"
	default:
		return "unspecified"
	}
}

// ParseHolderRole returns the role for a canonical label.
func ParseHolderRole(label string) (HolderRole, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "viewer":
		return RoleViewer, true
	case "authorized_user":
		return RoleAuthorizedUser, true
	case "joint_owner":
		return RoleJointOwner, true
	case "owner":
		return RoleOwner, true
	default:
		return RoleUnspecified, false
	}
}

// Valid reports whether the role is one of the defined permission levels.
func (r HolderRole) Valid() bool {
	return r >= RoleViewer && r <= RoleOwner
}

// AtLeast reports whether r ranks at or above other. This is the only
// sanctioned rank comparison; call sites never compare raw values.
func (r HolderRole) AtLeast(other HolderRole) bool {
	return r >= other
}

// CanManageHolders reports whether a holder with this role may remove other
// holders or change their roles. The permission table is explicit so the
// who-may-act-on-whom rules stay auditable.
func (r HolderRole) CanManageHolders() bool {
	switch r {
	case RoleOwner, RoleJointOwner:
		return true
	case RoleViewer, RoleAuthorizedUser:
		return false
	default:
		return false
	}
}
