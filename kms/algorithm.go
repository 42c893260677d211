// Package kms defines the cryptographic algorithm registry, key
// specifications, and the key management backend contract. It gates
// every signing and verification operation on an exact algorithm match
// between the requested operation and the key's declared algorithm.
package kms

import "strings"

// Algorithm identifies a cryptographic key algorithm.
type Algorithm int

const (
	// AlgorithmUnknown is the zero value; it never matches any key.
	AlgorithmUnknown Algorithm = iota
	Ed25519
	Secp256k1
	P256
	P384
	P521
	RSA2048
	RSA3072
	RSA4096
)

var algorithmNames = map[Algorithm]string{
	Ed25519:   "Ed25519",
	Secp256k1: "Secp256k1",
	P256:      "P-256",
	P384:      "P-384",
	P521:      "P-521",
	RSA2048:   "RSA-2048",
	RSA3072:   "RSA-3072",
	RSA4096:   "RSA-4096",
}

// algorithmAliases maps lowercase names and common aliases to algorithms.
var algorithmAliases = map[string]Algorithm{
	"ed25519":   Ed25519,
	"eddsa":     Ed25519,
	"secp256k1": Secp256k1,
	"es256k":    Secp256k1,
	"p-256":     P256,
	"p256":      P256,
	"secp256r1": P256,
	"es256":     P256,
	"p-384":     P384,
	"p384":      P384,
	"secp384r1": P384,
	"es384":     P384,
	"p-521":     P521,
	"p521":      P521,
	"secp521r1": P521,
	"es512":     P521,
	"rsa-2048":  RSA2048,
	"rsa2048":   RSA2048,
	"rsa-3072":  RSA3072,
	"rsa3072":   RSA3072,
	"rsa-4096":  RSA4096,
	"rsa4096":   RSA4096,
}

// ParseAlgorithm converts a human-readable algorithm name to an
// Algorithm. Matching is case-insensitive and accepts common aliases
// (e.g. "ES256K" for Secp256k1, "secp256r1" for P-256).
func ParseAlgorithm(name string) (Algorithm, bool) {
	alg, ok := algorithmAliases[strings.ToLower(strings.TrimSpace(name))]
	return alg, ok
}

// String returns the canonical algorithm name.
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}

	return "unknown"
}
