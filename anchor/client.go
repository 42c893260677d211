// Package anchor computes tamper-evident digests of credentials and
// anchors them to pluggable ledger clients.
package anchor

import "context"

// Payload is the digest-bearing record written to a chain.
type Payload struct {
	CredentialID string `json:"credentialId,omitempty"`
	Digest       string `json:"digest"`
}

// Ref identifies an anchored record on a specific chain. It is immutable
// once returned and serves as the lookup key for reading the record
// back.
type Ref struct {
	ChainID string `json:"chainId"`
	TxRef   string `json:"txRef"`
	Address string `json:"address,omitempty"`
}

// Client is the pluggable chain-client contract. Retry and timeout
// policy belong to the client; the anchor service propagates whatever
// failure the client reports.
type Client interface {
	// ChainID returns the client's chain namespace, e.g. "eip155:42161".
	ChainID() string

	// Write anchors the payload and returns its reference.
	Write(ctx context.Context, payload Payload) (Ref, error)

	// Read returns the payload previously anchored under ref.
	Read(ctx context.Context, ref Ref) (Payload, error)
}
