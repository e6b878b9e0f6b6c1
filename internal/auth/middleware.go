package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/niftrix/referral-admin/internal/events"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated admin.
type Principal struct {
	AdminID      int64
	MobileNumber string
	TokenID      string
	ExpiresAt    time.Time
}

// Gate admits requests carrying a valid session cookie.
type Gate struct {
	tokens     *TokenManager
	revoked    RevocationStore
	cookieName string
	logger     *zap.Logger
}

// NewGate constructs the middleware. revoked may be nil.
func NewGate(tokens *TokenManager, revoked RevocationStore, cookieName string, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{tokens: tokens, revoked: revoked, cookieName: cookieName, logger: logger}
}

// Handle answers 401 without a cookie and 403 for a bad, expired or
// revoked token.
func (g *Gate) Handle(c *fiber.Ctx) error {
	raw := c.Cookies(g.cookieName)
	if raw == "" {
		return apperrors.NewUnauthorized("authentication required")
	}

	claims, err := g.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewForbidden("invalid or expired token")
	}

	if g.revoked != nil && claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			g.logger.Error("revocation lookup failed", zap.Error(err))
			return apperrors.NewDependencyFailure("session store unavailable", err)
		}
		if revoked {
			return apperrors.NewForbidden("invalid or expired token")
		}
	}

	principal := &Principal{
		AdminID:      claims.AdminID,
		MobileNumber: claims.MobileNumber,
		TokenID:      claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	c.Locals(principalKey, principal)
	c.SetUserContext(events.WithActor(c.UserContext(), claims.AdminID))
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated admin.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
