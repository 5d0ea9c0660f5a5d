package domain

import "time"

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// StaffRoles are the roles allowed to manage cars and read every booking.
var StaffRoles = []string{RoleAdmin, RoleSuperadmin}

// User models an account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated caller resolved from a session.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Identity strips the credential fields off a user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

// IsStaff reports whether the identity holds an admin or superadmin role.
func (i Identity) IsStaff() bool {
	return i.Role == RoleAdmin || i.Role == RoleSuperadmin
}

// HasRole reports whether the identity's role is one of roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
