package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/internal/types"
)

const principalKey = "principal"

// LoadPrincipal parses the session cookie on every request and stores
// the resulting principal in the request context. A missing or invalid
// cookie yields the anonymous principal, never an error; individual
// routes decide whether anonymous access is acceptable.
func LoadPrincipal(cookieName string, sessions *services.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := sessions.Parse(c.Cookies(cookieName))
		if err != nil {
			principal = types.Anonymous()
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireUser guards protected form routes. Anonymous requests are
// redirected to the login page rather than rejected with an error.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Principal(c).Authenticated {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// Principal returns the request principal stored by LoadPrincipal.
func Principal(c *fiber.Ctx) types.Principal {
	if p, ok := c.Locals(principalKey).(types.Principal); ok {
		return p
	}
	return types.Anonymous()
}
