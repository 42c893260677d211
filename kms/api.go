package kms

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a backend has no key for the given id.
var ErrKeyNotFound = errors.New("key not found")

// KeyHandle references a key held by a backend. The algorithm is the
// backend's textual declaration; use KeySpecFromHandle to obtain the
// parsed form.
type KeyHandle struct {
	KeyID     string
	Algorithm string
	PublicKey []byte
}

// GenerateKeyOpts holds optional parameters for key generation.
type GenerateKeyOpts struct {
	// KeyID requests a specific key id. Backends assign one when empty.
	KeyID string
}

// KeyManager is the key management backend contract. Every backend must
// publish its supported algorithms before use; operations on algorithms
// outside that set fail with an UnsupportedAlgorithmError.
type KeyManager interface {
	// GenerateKey creates a new key of the given algorithm and returns
	// its handle.
	GenerateKey(ctx context.Context, algorithm Algorithm, opts GenerateKeyOpts) (KeyHandle, error)

	// GetPublicKey returns the handle for an existing key.
	GetPublicKey(ctx context.Context, keyID string) (KeyHandle, error)

	// Sign signs data with the given key. The requested algorithm must
	// match the key's declared algorithm exactly.
	Sign(ctx context.Context, keyID string, data []byte, algorithm Algorithm) ([]byte, error)

	// DeleteKey removes a key, reporting whether it existed.
	DeleteKey(ctx context.Context, keyID string) (bool, error)

	// SupportedAlgorithms returns the algorithms this backend can
	// generate and sign with.
	SupportedAlgorithms() []Algorithm
}
