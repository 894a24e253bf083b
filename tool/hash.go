package tool

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// SessionTokenBytes gives 16 url-safe characters, enough that zip_root/<id> never collides in practice.
const SessionTokenBytes = 12

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateSessionToken returns a random url-safe token used as session id and archive directory.
func GenerateSessionToken() string {
	b := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return strings.ReplaceAll(GenerateRandomUUID(), "-", "")[:16] // fallback
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
