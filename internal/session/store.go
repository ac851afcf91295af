// Package session holds server-side proof that a request comes from a
// previously authenticated identity. Tokens are opaque random strings handed
// to the client; stores only ever see a SHA-256 digest of the token, so a
// leaked store cannot be replayed.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found or expired")

// Store is the injected session dependency. Implementations must be safe for
// concurrent use by simultaneous requests.
type Store interface {
	// Set records key -> userID for ttl.
	Set(ctx context.Context, key string, userID uuid.UUID, ttl time.Duration) error
	// Get returns the user for key, or ErrNotFound when absent or expired.
	Get(ctx context.Context, key string) (uuid.UUID, error)
	// Delete invalidates key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewToken returns a fresh opaque session token.
func NewToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// Key derives the store key for a raw token.
func Key(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
