package models

// RoleKind enumerates the roles a user can hold.
type RoleKind string

const (
	RoleDiner      RoleKind = "diner"
	RoleFranchisee RoleKind = "franchisee"
	RoleAdmin      RoleKind = "admin"
)

// Role binds a user to a role, optionally scoped to a franchise.
//
// On input a franchisee role carries the franchise name in Object; the
// repository resolves it to ObjectID before writing. Diner and admin roles
// carry no scope. Use the constructors below so the scoping invariant
// holds.
type Role struct {
	Role     RoleKind `json:"role"`
	Object   string   `json:"object,omitempty"`
	ObjectID int64    `json:"objectId,omitempty"`
}

func DinerRole() Role {
	return Role{Role: RoleDiner}
}

func AdminRole() Role {
	return Role{Role: RoleAdmin}
}

// FranchiseeRole scopes the role to the franchise with the given name.
func FranchiseeRole(franchiseName string) Role {
	return Role{Role: RoleFranchisee, Object: franchiseName}
}

// User is an account on the platform. Password is input-only: every read
// path clears it before the record leaves the repository.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Roles    []Role `json:"roles"`
}

// IsRole reports whether the user holds the given role in any scope.
func (u *User) IsRole(kind RoleKind) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Role == kind {
			return true
		}
	}
	return false
}
