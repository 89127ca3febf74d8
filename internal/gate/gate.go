// Package gate decides whether the current session may enter a route. It
// reads only the cached session and never calls the backend.
package gate

import (
	"fmt"

	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/session"
)

// Outcome of an access check.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

// Target is where a denied session is sent.
type Target string

const (
	TargetLogin            Target = "login"
	TargetHome             Target = "home"
	TargetRestrictedNotice Target = "restricted-notice"
)

const unspecifiedReason = "unspecified report"

// Route describes an authenticated surface. Empty RequiredRoles admits any role.
type Route struct {
	Name          string
	RequiredRoles []domain.Role
}

// Decision is the result of CheckAccess. Notice is set only for the
// restricted-notice target.
type Decision struct {
	Outcome Outcome
	Target  Target
	Notice  string
}

// Allowed reports whether the session may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// CheckAccess evaluates the session against route. Restriction is checked
// before role so a restricted account always lands on the notice.
func CheckAccess(sess *session.Session, route Route) Decision {
	if sess == nil || sess.Token == "" || sess.User == nil {
		return Decision{Outcome: Redirect, Target: TargetLogin}
	}
	if sess.User.Restricted {
		return Decision{Outcome: Redirect, Target: TargetRestrictedNotice, Notice: RestrictionNotice(sess.User.RestrictionReason)}
	}
	if len(route.RequiredRoles) > 0 && !hasRole(route.RequiredRoles, sess.User.Role) {
		return Decision{Outcome: Redirect, Target: TargetHome}
	}
	return Decision{Outcome: Allow}
}

// RestrictionNotice renders the text shown to a restricted account.
func RestrictionNotice(reason *string) string {
	text := unspecifiedReason
	if reason != nil && *reason != "" {
		text = *reason
	}
	return fmt.Sprintf("You are restricted to access your profile by admin until further notice for %q.", text)
}

func hasRole(roles []domain.Role, role domain.Role) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
