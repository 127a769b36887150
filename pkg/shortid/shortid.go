// Package shortid generates random short-link codes.
package shortid

import (
	"crypto/rand"
	"fmt"
)

// Alphabet deliberately omits look-alike characters (0/o, 1/l/i) so codes
// survive being read aloud or retyped.
const Alphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// DefaultLength of generated codes.
const DefaultLength = 6

// New returns a random code of the given length drawn from Alphabet.
func New(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading randomness: %w", err)
	}
	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf), nil
}
