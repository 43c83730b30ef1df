package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/auth"
)

// ClaimsLocalKey is the key used to store parsed session claims in Fiber's
// context locals.
const ClaimsLocalKey = "session_claims"

// RequireAuth verifies the Bearer token and stores its claims in locals.
// Requests without a valid token are rejected with 401.
func RequireAuth(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		claims, err := issuer.Parse(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// OptionalAuth parses a Bearer token when one is present but lets anonymous
// requests through. Used on routes open to the public that behave better for
// logged-in callers.
func OptionalAuth(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if claims, err := issuer.Parse(token); err == nil {
				c.Locals(ClaimsLocalKey, claims)
			}
		}
		return c.Next()
	}
}

// RequireCapability gates a route on a capability carried in the session
// claims. It must run after RequireAuth.
func RequireCapability(cap auth.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsLocalKey).(*auth.Claims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		if !auth.FromStrings(claims.Capabilities).Has(cap) {
			return fiber.NewError(fiber.StatusForbidden)
		}
		return c.Next()
	}
}

// ClaimsFromCtx returns the session claims stored by RequireAuth, if any.
func ClaimsFromCtx(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims, ok
}
