package anchor

import (
	"encoding/json"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"

	"github.com/pilacorp/go-trust-sdk/credential"
	"github.com/pilacorp/go-trust-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-trust-sdk/credential/common/processor"
)

// DigestOpt configures digest computation.
type DigestOpt func(*digestOptions)

type digestOptions struct {
	includeProof bool
	linkedData   bool
	processor    []processor.Opt
}

// WithProof includes the credential's proof block in the digest input.
func WithProof() DigestOpt {
	return func(o *digestOptions) {
		o.includeProof = true
	}
}

// WithLinkedDataCanonicalization canonicalizes the digest input with the
// URDNA2015 JSON-LD algorithm instead of canonical JSON. The credential
// must carry resolvable @context entries.
func WithLinkedDataCanonicalization(opts ...processor.Opt) DigestOpt {
	return func(o *digestOptions) {
		o.linkedData = true
		o.processor = opts
	}
}

// ComputeDigest computes the content-addressed digest of a credential:
// the canonical form of the credential document (always excluding the
// evidence list, and excluding the proof block unless WithProof is set)
// hashed with sha2-256 and encoded as a base58btc multibase multihash
// string. Identical credential content with identical options always
// yields an identical digest.
func ComputeDigest(cred *credential.Credential, opts ...DigestOpt) (string, error) {
	if cred == nil {
		return "", fmt.Errorf("credential is nil")
	}

	o := &digestOptions{}
	for _, opt := range opts {
		opt(o)
	}

	// Evidence entries reference the digest, so they can never be part
	// of the digest input: anchoring would otherwise change the digest
	// it anchors.
	doc := cred.Document().WithoutField("evidence")
	if !o.includeProof {
		doc = doc.WithoutField("proof")
	}

	canonical, err := canonicalForm(doc, o)
	if err != nil {
		return "", err
	}

	mh, err := multihash.Sum(canonical, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("failed to compute multihash: %w", err)
	}

	encoded, err := multibase.Encode(multibase.Base58BTC, mh)
	if err != nil {
		return "", fmt.Errorf("failed to encode digest: %w", err)
	}

	return encoded, nil
}

// VerifyDigest recomputes a credential digest and compares it to an
// expected value.
func VerifyDigest(cred *credential.Credential, expected string, opts ...DigestOpt) (bool, error) {
	computed, err := ComputeDigest(cred, opts...)
	if err != nil {
		return false, err
	}

	return computed == expected, nil
}

// canonicalForm produces the byte-stable serialization of the document.
// The default is canonical JSON via a map round-trip: encoding/json
// emits map keys in sorted order at every nesting level, so the output
// is independent of the source document's key ordering.
func canonicalForm(doc jsonmap.JSONMap, o *digestOptions) ([]byte, error) {
	if o.linkedData {
		normalized, err := processor.Canonicalize(doc, o.processor...)
		if err != nil {
			return nil, fmt.Errorf("failed to canonicalize credential: %w", err)
		}

		return normalized, nil
	}

	copied, err := doc.Copy()
	if err != nil {
		return nil, fmt.Errorf("failed to normalize credential document: %w", err)
	}

	canonical, err := json.Marshal(copied)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal canonical credential: %w", err)
	}

	return canonical, nil
}
