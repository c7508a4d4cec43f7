package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrMissingSecret indicates the signing secret is not configured
	ErrMissingSecret = errors.New("jwt secret is not configured")

	// ErrInvalidToken indicates the token is malformed or its signature doesn't verify
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the decoded token payload: a subject (user ID) and an absolute
// expiry instant.
type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and validates HS256 bearer tokens. Tokens are stateless:
// there is no server-side revocation, only signature and expiry.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue signs a token asserting the subject, expiring TokenTTL from now.
func (s *Service) Issue(subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// Validate checks signature and structure only. Expiry is deliberately not
// enforced here: the auth middleware compares the claim's expiry against
// its own clock, so an expired but well-signed token still decodes.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Expired reports whether the claims' expiry has passed at instant now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.Before(now)
}
