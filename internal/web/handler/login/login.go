// Package login issues API tokens for local accounts.
package login

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

const (
	// Path is the login endpoint, relative to the API group.
	Path = "/login"

	// TokenType is the scheme clients send the token with.
	TokenType = "Bearer"
)

type request struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=128"`
}

// Token is the response of a successful login.
type Token struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Service is the login handler service.
type Service struct {
	provider *auth.LocalProvider
	tokens   *auth.TokenService
}

// Init registers the login route. It must be registered before the bearer token
// middleware of the API group.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, tokens *auth.TokenService) {
	if router == nil || cfg == nil || db == nil || tokens == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.provider = auth.NewLocalProvider(db)
	s.tokens = tokens

	router.Post(Path, s.Post)
}

// Post verifies the credentials and issues a token.
func (s *Service) Post(c *fiber.Ctx) error {
	var req request
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	user, err := s.provider.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Str("IP", c.IP()).Msg("login failed")
		return err
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return err
	}

	log.Info().Uint64("userID", user.ID).Msg("user logged in")

	return handler.OK(c, Token{
		Token:     token,
		TokenType: TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      *user,
	})
}
