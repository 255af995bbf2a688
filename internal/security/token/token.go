package token

import (
	"crypto/rand"
	"math/big"
)

// Confirmation tokens are bearer credentials: opaque, fixed length, drawn
// from a CSPRNG. 25 case-sensitive alphanumerics give 62^25 possibilities,
// which makes guessing infeasible.
const (
	Length   = 25
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generate returns a new random confirmation token.
func Generate() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Wellformed reports whether s has the exact shape of an issued token.
// A token failing this check is malformed input, distinct from a well-formed
// token that resolves to no subscriber.
func Wellformed(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
