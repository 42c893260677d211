package kms

import "fmt"

// KeySpec pairs a key identifier with its declared algorithm. A signing
// or verification operation against the key must use exactly this
// algorithm; there is no implicit widening between related algorithms.
type KeySpec struct {
	KeyID     string
	Algorithm Algorithm
}

// UnsupportedAlgorithmError reports an operation requested with an
// algorithm different from the key's declared one.
type UnsupportedAlgorithmError struct {
	KeyID     string
	Declared  Algorithm
	Requested Algorithm
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("key '%s' declares algorithm %s and does not support %s",
		e.KeyID, e.Declared, e.Requested)
}

// InvalidKeyHandleError reports a key handle whose algorithm string does
// not parse to a known algorithm.
type InvalidKeyHandleError struct {
	KeyID     string
	Algorithm string
}

func (e *InvalidKeyHandleError) Error() string {
	return fmt.Sprintf("key handle '%s' carries unknown algorithm '%s'", e.KeyID, e.Algorithm)
}

// Supports reports whether the key may be used for an operation
// requiring the given algorithm. Only an exact match qualifies: a P-256
// key never supports P-384.
func (s KeySpec) Supports(required Algorithm) bool {
	return s.Algorithm != AlgorithmUnknown && s.Algorithm == required
}

// RequireSupports fails with an UnsupportedAlgorithmError naming both
// algorithms when the key does not support the required one.
func (s KeySpec) RequireSupports(required Algorithm) error {
	if !s.Supports(required) {
		return &UnsupportedAlgorithmError{
			KeyID:     s.KeyID,
			Declared:  s.Algorithm,
			Requested: required,
		}
	}

	return nil
}

// KeySpecFromHandle derives a KeySpec from a backend key handle. It
// fails when the handle's algorithm string does not parse.
func KeySpecFromHandle(h KeyHandle) (KeySpec, error) {
	alg, ok := ParseAlgorithm(h.Algorithm)
	if !ok {
		return KeySpec{}, &InvalidKeyHandleError{KeyID: h.KeyID, Algorithm: h.Algorithm}
	}

	return KeySpec{KeyID: h.KeyID, Algorithm: alg}, nil
}
