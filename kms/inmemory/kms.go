// Package inmemory provides a KeyManager backed by process memory. It
// is the reference backend for tests and for hosts that manage key
// material themselves rather than through an external KMS or HSM.
package inmemory

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/google/uuid"

	"github.com/pilacorp/go-trust-sdk/kms"
)

type storedKey struct {
	spec    kms.KeySpec
	public  []byte
	private interface{}
}

// Backend is an in-memory KeyManager. It is safe for concurrent use.
type Backend struct {
	mu   sync.RWMutex
	keys map[string]storedKey
}

// New returns an empty in-memory backend.
func New() *Backend {
	return &Backend{keys: make(map[string]storedKey)}
}

// SupportedAlgorithms returns the algorithms this backend can generate
// and sign with.
func (b *Backend) SupportedAlgorithms() []kms.Algorithm {
	return []kms.Algorithm{
		kms.Ed25519,
		kms.Secp256k1,
		kms.P256,
		kms.P384,
		kms.P521,
		kms.RSA2048,
		kms.RSA3072,
		kms.RSA4096,
	}
}

// GenerateKey creates a new key of the given algorithm.
func (b *Backend) GenerateKey(ctx context.Context, algorithm kms.Algorithm, opts kms.GenerateKeyOpts) (kms.KeyHandle, error) {
	keyID := opts.KeyID
	if keyID == "" {
		keyID = uuid.NewString()
	}

	public, private, err := generate(algorithm)
	if err != nil {
		return kms.KeyHandle{}, fmt.Errorf("failed to generate %s key: %w", algorithm, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.keys[keyID]; exists {
		return kms.KeyHandle{}, fmt.Errorf("key '%s' already exists", keyID)
	}

	b.keys[keyID] = storedKey{
		spec:    kms.KeySpec{KeyID: keyID, Algorithm: algorithm},
		public:  public,
		private: private,
	}

	return kms.KeyHandle{KeyID: keyID, Algorithm: algorithm.String(), PublicKey: public}, nil
}

// GetPublicKey returns the handle for an existing key.
func (b *Backend) GetPublicKey(ctx context.Context, keyID string) (kms.KeyHandle, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	key, ok := b.keys[keyID]
	if !ok {
		return kms.KeyHandle{}, fmt.Errorf("key '%s': %w", keyID, kms.ErrKeyNotFound)
	}

	return kms.KeyHandle{
		KeyID:     key.spec.KeyID,
		Algorithm: key.spec.Algorithm.String(),
		PublicKey: key.public,
	}, nil
}

// Sign signs data with the given key. The requested algorithm must match
// the key's declared algorithm exactly.
func (b *Backend) Sign(ctx context.Context, keyID string, data []byte, algorithm kms.Algorithm) ([]byte, error) {
	b.mu.RLock()
	key, ok := b.keys[keyID]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("key '%s': %w", keyID, kms.ErrKeyNotFound)
	}

	if err := key.spec.RequireSupports(algorithm); err != nil {
		return nil, err
	}

	return sign(key, data)
}

// DeleteKey removes a key, reporting whether it existed.
func (b *Backend) DeleteKey(ctx context.Context, keyID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.keys[keyID]
	delete(b.keys, keyID)

	return ok, nil
}

func generate(algorithm kms.Algorithm) (public []byte, private interface{}, err error) {
	switch algorithm {
	case kms.Ed25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, err
		}

		return pub, priv, nil

	case kms.Secp256k1:
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, nil, err
		}

		return priv.PubKey().SerializeCompressed(), priv, nil

	case kms.P256, kms.P384, kms.P521:
		priv, err := ecdsa.GenerateKey(nistCurve(algorithm), rand.Reader)
		if err != nil {
			return nil, nil, err
		}

		pub, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
		if err != nil {
			return nil, nil, err
		}

		return pub, priv, nil

	case kms.RSA2048, kms.RSA3072, kms.RSA4096:
		priv, err := rsa.GenerateKey(rand.Reader, rsaBits(algorithm))
		if err != nil {
			return nil, nil, err
		}

		pub, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
		if err != nil {
			return nil, nil, err
		}

		return pub, priv, nil

	default:
		return nil, nil, fmt.Errorf("algorithm %s is not supported by the in-memory backend", algorithm)
	}
}

func sign(key storedKey, data []byte) ([]byte, error) {
	switch priv := key.private.(type) {
	case ed25519.PrivateKey:
		return ed25519.Sign(priv, data), nil

	case *btcec.PrivateKey:
		digest := sha256.Sum256(data)
		return secpecdsa.Sign(priv, digest[:]).Serialize(), nil

	case *ecdsa.PrivateKey:
		digest := nistDigest(key.spec.Algorithm, data)
		return ecdsa.SignASN1(rand.Reader, priv, digest)

	case *rsa.PrivateKey:
		digest := sha256.Sum256(data)
		return rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])

	default:
		return nil, fmt.Errorf("key '%s' holds unsupported private key type %T", key.spec.KeyID, priv)
	}
}

func nistCurve(algorithm kms.Algorithm) elliptic.Curve {
	switch algorithm {
	case kms.P384:
		return elliptic.P384()
	case kms.P521:
		return elliptic.P521()
	default:
		return elliptic.P256()
	}
}

func nistDigest(algorithm kms.Algorithm, data []byte) []byte {
	switch algorithm {
	case kms.P384:
		digest := sha512.Sum384(data)
		return digest[:]
	case kms.P521:
		digest := sha512.Sum512(data)
		return digest[:]
	default:
		digest := sha256.Sum256(data)
		return digest[:]
	}
}

func rsaBits(algorithm kms.Algorithm) int {
	switch algorithm {
	case kms.RSA3072:
		return 3072
	case kms.RSA4096:
		return 4096
	default:
		return 2048
	}
}
