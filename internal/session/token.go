package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// TokenBytes is the amount of randomness in a token (256 bits).
const TokenBytes = 32

// bearerPattern matches the Authorization header value.
var bearerPattern = regexp.MustCompile(`^Bearer\s+(\S+)`)

// NewToken returns a hex-encoded token read from crypto/rand.
func NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>"
// header value. ok is false when the prefix or the token is missing.
func ExtractBearer(header string) (token string, ok bool) {
	m := bearerPattern.FindStringSubmatch(header)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Key returns the store key for token.
func Key(token string) string {
	return "session:" + token
}
