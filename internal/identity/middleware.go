package identity

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
)

const identityKey = "effective_identity"

// Middleware resolves the effective identity once per request and stores
// it in the request context.
type Middleware struct {
	resolver *Resolver
	tokens   *TokenManager
	cfg      config.IdentityConfig
	logger   *zap.Logger
}

// NewMiddleware constructs the middleware.
func NewMiddleware(resolver *Resolver, tokens *TokenManager, cfg config.IdentityConfig, logger *zap.Logger) *Middleware {
	return &Middleware{resolver: resolver, tokens: tokens, cfg: cfg, logger: logger}
}

// Handle reads the externally supplied principal and the optional signed
// override cookie, resolves the effective identity, and stores it.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	principal := c.Get(m.cfg.PrincipalHeader)
	if principal == "" {
		principal = m.cfg.DefaultPrincipal
	}

	var ov Overrides
	if raw := c.Cookies(m.cfg.OverrideCookie); raw != "" {
		parsed, err := m.tokens.Parse(raw)
		if err != nil {
			// a stale or tampered override is ignored, not rejected
			m.logger.Debug("override cookie rejected", zap.Error(err))
		} else {
			ov = parsed
		}
	}

	ident := m.resolver.Effective(c.UserContext(), principal, ov)
	c.Locals(identityKey, ident)
	return c.Next()
}

// FromContext retrieves the effective identity for the request.
func FromContext(c *fiber.Ctx) (Identity, bool) {
	ident, ok := c.Locals(identityKey).(Identity)
	return ident, ok
}
