package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/auth"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// AuthCookie carries the local access token.
const AuthCookie = "accessToken"

const identityKey = "identity"

// Authenticate resolves the caller from the auth cookie, the bearer header
// or the token query parameter and stores the identity on the request.
func Authenticate(resolver *auth.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds := auth.Credentials{
			Cookie: c.Cookies(AuthCookie),
			Bearer: bearerToken(c.Get(fiber.HeaderAuthorization)),
			Query:  c.Query("token"),
		}

		identity, err := resolver.Resolve(c.UserContext(), creds)
		if err != nil {
			return services.Unauthorized("Not authorized.")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// Authorize only lets the listed roles through. It must run after Authenticate.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return services.Unauthorized("Not authorized.")
		}
		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}
		return services.Forbidden("Access denied.")
	}
}

// CurrentIdentity returns the identity Authenticate attached, if any.
func CurrentIdentity(c *fiber.Ctx) (*auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*auth.Identity)
	return identity, ok && identity != nil
}

// Actor is the caller as the service layer sees it.
func Actor(c *fiber.Ctx) services.Actor {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{UserID: identity.UserID, Role: identity.Role}
}
