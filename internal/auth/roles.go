package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lenslink/moderation-service/internal/domain"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

// RequireRole ensures the caller holds one of the allowed roles. An empty
// list only requires authentication.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireNotRestricted rejects restricted accounts with ACCOUNT_RESTRICTED.
func RequireNotRestricted() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User.Restricted {
			reason := ""
			if principal.User.RestrictionReason != nil {
				reason = *principal.User.RestrictionReason
			}
			return apperrors.NewAccountRestricted(reason)
		}
		return c.Next()
	}
}
