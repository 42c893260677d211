package dto

// EvidenceTypeBlockchainAnchor is the evidence type for on-chain digest anchors.
const EvidenceTypeBlockchainAnchor = "BlockchainAnchor"

// Evidence represents a single entry in a credential's evidence list.
// Anchor evidence carries the chain the credential was anchored to and
// enough data to re-check the anchored digest.
type Evidence struct {
	ID            string `json:"id,omitempty"`
	Type          string `json:"type"`
	ChainID       string `json:"chainId,omitempty"`
	Digest        string `json:"digest,omitempty"`
	TxRef         string `json:"txRef,omitempty"`
	Address       string `json:"address,omitempty"`
	IncludesProof bool   `json:"includesProof,omitempty"`
}
