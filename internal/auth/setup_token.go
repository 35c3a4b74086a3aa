package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const setupTokenBytes = 32

// DefaultSetupTokenExpiry is the validity of a password setup/reset token.
const DefaultSetupTokenExpiry = 24 * time.Hour

// SetupToken is a one-time password setup/reset token. Only Hash and ExpiresAt are
// persisted; Raw goes to the user once and is never stored.
type SetupToken struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// NewSetupToken generates a random token valid for ttl from now.
func NewSetupToken(now time.Time, ttl time.Duration) (SetupToken, error) {
	if ttl <= 0 {
		ttl = DefaultSetupTokenExpiry
	}
	buf := make([]byte, setupTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return SetupToken{}, fmt.Errorf("generate setup token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	return SetupToken{
		Raw:       raw,
		Hash:      HashSetupToken(raw),
		ExpiresAt: now.Add(ttl),
	}, nil
}

// HashSetupToken returns the stored form of a raw setup token.
func HashSetupToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
