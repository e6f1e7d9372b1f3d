package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	fiberlog "github.com/hrmsuite/hrms/internal/logger/adapter/fiber"
)

const (
	// LocalsPrincipal is the fiber.Locals key holding the *Principal of the request.
	LocalsPrincipal = "principal"
	// LocalsClaims is the fiber.Locals key holding the *Claims of the bearer token.
	LocalsClaims = "claims"

	bearerPrefix = "bearer "
)

// Authenticate resolves the bearer token into a Principal. Requests without a valid token
// fail with 401 before reaching the handler.
func Authenticate(tokens *TokenService, gate *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return ErrUnauthenticated
		}

		claims, err := tokens.Parse(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			return err
		}

		principal, err := gate.LoadPrincipal(c.UserContext(), claims.UserID)
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidToken
		}

		if err != nil {
			return err
		}

		c.Locals(LocalsClaims, claims)
		c.Locals(LocalsPrincipal, principal)
		c.Locals(fiberlog.LocalsUserID, principal.ID())

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(gate *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		if p == nil {
			return ErrUnauthenticated
		}

		if err := gate.Authorize(p, permission); err != nil {
			return err
		}

		return c.Next()
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(gate *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		if p == nil {
			return ErrUnauthenticated
		}

		if err := gate.AuthorizeAny(p, permissions...); err != nil {
			return err
		}

		return c.Next()
	}
}

// PrincipalFrom returns the principal set by Authenticate, nil for anonymous requests.
func PrincipalFrom(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(LocalsPrincipal).(*Principal)
	return p
}

// ClaimsFrom returns the token claims set by Authenticate.
func ClaimsFrom(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(LocalsClaims).(*Claims)
	return claims
}
