package usecase

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// randomToken returns a URL-safe token built from n random bytes.
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
