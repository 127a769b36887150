package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// GrantLen is the length of an issued grant in hex characters.
const GrantLen = 32

// AccessGrants derives the cookie value that proves a caller already
// supplied the correct password for a code. The grant is a keyed digest of
// code and current password hash, not a signed structure: rotating the
// link's password changes the derivation input and implicitly revokes every
// outstanding grant. Expiry is enforced by the cookie's Max-Age, set by the
// HTTP layer.
type AccessGrants struct {
	secret []byte
}

func NewAccessGrants(secret []byte) *AccessGrants {
	return &AccessGrants{secret: secret}
}

// Issue derives the grant for code under its current password hash.
func (g *AccessGrants) Issue(code, passwordHash string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(code))
	mac.Write([]byte{'|'})
	mac.Write([]byte(passwordHash))
	return hex.EncodeToString(mac.Sum(nil))[:GrantLen]
}

// Verify recomputes the derivation and compares without branching on
// content.
func (g *AccessGrants) Verify(code, passwordHash, token string) bool {
	want := g.Issue(code, passwordHash)
	return hmac.Equal([]byte(want), []byte(token))
}
