// Package secrets keeps provider API keys out of the database. A Sealer turns
// a clear key into something safe to persist and back again.
package secrets

import (
	"context"
	"errors"
)

// ErrInvalidSecret is returned when a sealed value cannot be opened.
var ErrInvalidSecret = errors.New("sealed secret is invalid")

// Sealed is the persisted form of a secret: either a reference to an
// external secret store or a locally encrypted ciphertext.
type Sealed struct {
	Ref        string
	Ciphertext string
}

// Sealer seals and opens secrets bound to a tenant.
type Sealer interface {
	Seal(ctx context.Context, tenantID, name, plaintext string) (Sealed, error)
	Open(ctx context.Context, tenantID string, s Sealed) (string, error)
	// Destroy releases any external resource held by s.
	Destroy(ctx context.Context, tenantID string, s Sealed) error
}

// Hint returns the last four characters of a key for display.
func Hint(plaintext string) string {
	r := []rune(plaintext)
	if len(r) <= 4 {
		return "****"
	}
	return "****" + string(r[len(r)-4:])
}
