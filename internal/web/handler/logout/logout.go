// Package logout revokes the bearer token of the request.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

// Path is the logout endpoint, relative to the API group.
const Path = "/logout"

// Service is the logout handler service.
type Service struct {
	tokens *auth.TokenService
}

// Init registers the logout route on the authenticated router.
func (s *Service) Init(router fiber.Router, tokens *auth.TokenService) {
	if router == nil || tokens == nil {
		log.Fatal().Msg("router or token service is nil")
		return
	}

	s.tokens = tokens

	router.Post(Path, s.Post)
}

// Post revokes the token until its natural expiry. Other tokens of the user stay valid.
func (s *Service) Post(c *fiber.Ctx) error {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		return auth.ErrUnauthenticated
	}

	if err := s.tokens.Revoke(claims); err != nil {
		return err
	}

	log.Info().Uint64("userID", claims.UserID).Msg("user logged out")

	return handler.Message(c, "logged out")
}
