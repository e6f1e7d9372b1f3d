package auth

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/db/models"
)

const revokedKeyPrefix = "revoked:"

// Claims are the JWT claims of an API token.
type Claims struct {
	UserID uint64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies API tokens. Revoked token ids are kept in store until
// the token would have expired anyway.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  fiber.Storage
	now    func() time.Time
}

// NewTokenService creates a token service for the auth config.
func NewTokenService(cfg config.Auth, store fiber.Storage) *TokenService {
	if store == nil {
		panic("token store is nil")
	}

	return &TokenService{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		store:  store,
		now:    time.Now,
	}
}

// Issue signs a new token for user.
func (s *TokenService) Issue(user *models.User) (string, *Claims, error) {
	now := s.now()

	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to sign token")
	}

	return signed, claims, nil
}

// Parse verifies signature, issuer and expiry of a token and checks the denylist.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(_ *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	revoked, err := s.store.Get(revokedKeyPrefix + claims.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read token denylist")
	}

	if len(revoked) > 0 {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Revoke puts the token id on the denylist until the token expires.
func (s *TokenService) Revoke(claims *Claims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if left := claims.ExpiresAt.Sub(s.now()); left > 0 {
			ttl = left
		}
	}

	if err := s.store.Set(revokedKeyPrefix+claims.ID, []byte("1"), ttl); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}

	return nil
}
