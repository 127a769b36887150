package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLen   = 16
	digestLen = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// PasswordHasher produces "salt$digest" hashes for link and account
// passwords. Both halves are hex, so the "$" delimiter can never appear
// inside either component.
type PasswordHasher struct{}

func NewPasswordHasher() *PasswordHasher { return &PasswordHasher{} }

// Hash draws a fresh random salt and returns hex(salt)$hex(digest).
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	digest := argon2.IDKey([]byte(plaintext), salt, argonTime, argonMemory, argonThreads, digestLen)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(digest), nil
}

// Verify recomputes the digest with the stored salt and compares in
// constant time. Stored values without a delimiter are compared directly
// against the plaintext (legacy records written before hashing existed);
// callers must surface legacy=true to operators.
func (h *PasswordHasher) Verify(plaintext, stored string) (ok bool, legacy bool) {
	saltHex, digestHex, found := strings.Cut(stored, "$")
	if !found {
		return subtle.ConstantTimeCompare([]byte(plaintext), []byte(stored)) == 1, true
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, false
	}
	want, err := hex.DecodeString(digestHex)
	if err != nil {
		return false, false
	}

	got := argon2.IDKey([]byte(plaintext), salt, argonTime, argonMemory, argonThreads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, false
}
