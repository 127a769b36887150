package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shorterhq/shorter/pkg/core/domain"
)

// SessionValidity is the lifetime of an issued session token.
const SessionValidity = 7 * 24 * time.Hour

// SessionTokens mints and checks the HS256 tokens that assert an account
// identity for management operations. Verification fails closed: any
// parse, signature or expiry problem yields domain.ErrUnauthenticated.
type SessionTokens struct {
	secret []byte
	now    func() time.Time
}

func NewSessionTokens(secret []byte) *SessionTokens {
	return &SessionTokens{secret: secret, now: time.Now}
}

// Issue returns a signed token with the email as subject, expiring
// SessionValidity from now.
func (s *SessionTokens) Issue(email string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionValidity)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature before trusting any claim, then the expiry,
// and returns the asserted email.
func (s *SessionTokens) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}
