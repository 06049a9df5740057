// Package policy holds the pure authorization predicates consumed by the
// campaign and donation services. Disabled accounts are rejected at the auth
// boundary and never reach these checks.
package policy

import "server/internal/domain"

// Access evaluates ownership and role predicates. It carries no state; it
// exists as a value so services receive their authorization rules explicitly
// at construction instead of reaching for globals.
type Access struct{}

// IsAdmin reports whether the principal holds the admin role.
func (Access) IsAdmin(principal *domain.User) bool {
	return principal.IsAdmin()
}

// IsOwner reports whether the principal owns the campaign.
func (Access) IsOwner(principal *domain.User, campaign *domain.Campaign) bool {
	return principal != nil && campaign != nil && principal.ID == campaign.OwnerID
}

// CanModify allows the owner or an admin to change a campaign.
func (a Access) CanModify(principal *domain.User, campaign *domain.Campaign) bool {
	return a.IsOwner(principal, campaign) || a.IsAdmin(principal)
}

// CanViewPrivate allows the owner or an admin to see pending and rejected
// campaigns; everyone else only sees the public statuses.
func (a Access) CanViewPrivate(principal *domain.User, campaign *domain.Campaign) bool {
	return a.IsOwner(principal, campaign) || a.IsAdmin(principal)
}
