package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// AccountStatus enumerates account states. Disabled accounts are rejected at
// the auth boundary and never reach the core.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountDisabled AccountStatus = "disabled"
)

// User is the authenticated principal acting on campaigns and donations.
// Credential handling lives with the identity provider; this record only
// carries what authorization needs.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// IsDisabled reports whether the account has been disabled.
func (u *User) IsDisabled() bool {
	return u != nil && u.Status == AccountDisabled
}
