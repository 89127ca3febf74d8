package domain

import "time"

// Role enumerates account roles on the marketplace.
type Role string

const (
	RoleUser         Role = "user"
	RolePhotographer Role = "photographer"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePhotographer, RoleAdmin:
		return true
	}
	return false
}

// User is the moderation-relevant subset of a marketplace account.
type User struct {
	ID                string
	FullName          string
	Email             string
	Role              Role
	Restricted        bool
	RestrictionReason *string
	RestrictedAt      *time.Time
	CreatedAt         time.Time
}

// Restrict flags the account. A second restriction overwrites reason and timestamp.
func (u *User) Restrict(reason string, at time.Time) {
	u.Restricted = true
	u.RestrictionReason = &reason
	u.RestrictedAt = &at
}

// Unrestrict clears the flag together with reason and timestamp.
func (u *User) Unrestrict() {
	u.Restricted = false
	u.RestrictionReason = nil
	u.RestrictedAt = nil
}

// UserSummary is the public identity attached to enriched reports.
type UserSummary struct {
	ID       string
	FullName string
	Email    string
	Role     Role
}

// Summary projects the account to its display identity.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}
