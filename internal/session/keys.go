package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// keySalt is fixed so the same passphrase yields the same key on every
// instance and restart.
var keySalt = []byte("sentiment-web/visitor-session/v1")

// SigningKey stretches a configured passphrase into a 32 byte HS256 key
func SigningKey(secret string) []byte {
	return argon2.IDKey([]byte(secret), keySalt, 1, 64*1024, 4, 32)
}

// GenerateSecret returns a random passphrase for deployments without one.
// Visitor cookies signed with it do not survive a restart.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}
