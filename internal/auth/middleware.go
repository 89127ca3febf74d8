package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/cache"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/repository"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// AuthMiddleware validates bearer tokens and loads the caller's account.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	cache  cache.UserCache
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware. A nil cache disables caching.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, userCache cache.UserCache, logger *zap.Logger) *AuthMiddleware {
	if userCache == nil {
		userCache = cache.NopUserCache{}
	}
	return &AuthMiddleware{tokens: tokens, users: users, cache: userCache, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	ctx := c.UserContext()
	user, hit := m.cache.Get(ctx, claims.Subject)
	if !hit {
		user, err = m.users.GetByID(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("account not found")
			}
			return apperrors.MapError(err)
		}
		m.cache.Set(ctx, user)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	if !ok || principal.User == nil {
		return nil, false
	}
	return principal, true
}
