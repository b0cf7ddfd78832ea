package secrets

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "site-catalog/llm-secret/v1"

// LocalSealer encrypts secrets with XChaCha20-Poly1305 under a key derived
// per tenant from the master key. The tenant id is bound as additional data,
// so a ciphertext copied to another tenant fails to open.
type LocalSealer struct {
	master []byte
}

func NewLocalSealer(masterKey string) (*LocalSealer, error) {
	if len(masterKey) < 32 {
		return nil, errors.New("master key must be at least 32 bytes")
	}
	return &LocalSealer{master: []byte(masterKey)}, nil
}

func (s *LocalSealer) tenantKey(tenantID string) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, s.master, []byte(tenantID), []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func (s *LocalSealer) Seal(_ context.Context, tenantID, _, plaintext string) (Sealed, error) {
	key, err := s.tenantKey(tenantID)
	if err != nil {
		return Sealed{}, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Sealed{}, err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return Sealed{}, fmt.Errorf("generate nonce: %w", err)
	}
	out := aead.Seal(nonce, nonce, []byte(plaintext), []byte(tenantID))
	return Sealed{Ciphertext: base64.StdEncoding.EncodeToString(out)}, nil
}

func (s *LocalSealer) Open(_ context.Context, tenantID string, sealed Sealed) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	if err != nil {
		return "", ErrInvalidSecret
	}
	key, err := s.tenantKey(tenantID)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrInvalidSecret
	}

	nonce, body := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, body, []byte(tenantID))
	if err != nil {
		return "", ErrInvalidSecret
	}
	return string(plain), nil
}

// Destroy is a no-op; the ciphertext lives only in the document.
func (s *LocalSealer) Destroy(context.Context, string, Sealed) error { return nil }
