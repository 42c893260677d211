// Package ethereum anchors credential digests on EVM chains by writing
// them into transaction calldata addressed to a designated anchor
// account.
package ethereum

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/pilacorp/go-trust-sdk/anchor"
)

// Backend is the subset of an Ethereum RPC client the anchor client
// needs. *ethclient.Client satisfies it.
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// ClientConfig holds configuration for the Ethereum anchor client.
type ClientConfig struct {
	// ChainID is the numeric EVM chain id; the client's namespace is
	// "eip155:<ChainID>".
	ChainID int64

	// AnchorAddress is the account anchor transactions are sent to.
	AnchorAddress string

	// PrivateKeyHex is the hex-encoded secp256k1 key that signs anchor
	// transactions.
	PrivateKeyHex string

	// Optional: defaults to 0 if not set, suitable for gas-free subnets.
	// For mainnet/L2, these should be configured or estimated dynamically.
	GasPrice *big.Int
	GasLimit uint64
}

// Client anchors payloads as transaction calldata on an EVM chain.
type Client struct {
	backend Backend
	config  ClientConfig
	signer  types.Signer
	from    common.Address
	to      common.Address
}

// NewClient creates an anchor client over the given backend.
func NewClient(backend Backend, config ClientConfig) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}

	if config.ChainID <= 0 {
		return nil, fmt.Errorf("chain id must be positive, got %d", config.ChainID)
	}

	if !common.IsHexAddress(config.AnchorAddress) {
		return nil, fmt.Errorf("invalid anchor address '%s'", config.AnchorAddress)
	}

	key, err := crypto.HexToECDSA(config.PrivateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse anchor signing key: %w", err)
	}

	return &Client{
		backend: backend,
		config:  config,
		signer:  types.NewEIP155Signer(big.NewInt(config.ChainID)),
		from:    crypto.PubkeyToAddress(key.PublicKey),
		to:      common.HexToAddress(config.AnchorAddress),
	}, nil
}

// ChainID returns the client's chain namespace.
func (c *Client) ChainID() string {
	return fmt.Sprintf("eip155:%d", c.config.ChainID)
}

// Write signs and submits a transaction carrying the payload as
// calldata, returning the transaction hash as the anchor reference.
func (c *Client) Write(ctx context.Context, payload anchor.Payload) (anchor.Ref, error) {
	tx, err := c.buildTx(ctx, payload)
	if err != nil {
		return anchor.Ref{}, err
	}

	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		return anchor.Ref{}, fmt.Errorf("failed to submit anchor transaction: %w", err)
	}

	return anchor.Ref{
		ChainID: c.ChainID(),
		TxRef:   tx.Hash().Hex(),
		Address: c.config.AnchorAddress,
	}, nil
}

// Read fetches the referenced transaction and decodes the anchored
// payload from its calldata.
func (c *Client) Read(ctx context.Context, ref anchor.Ref) (anchor.Payload, error) {
	tx, _, err := c.backend.TransactionByHash(ctx, common.HexToHash(ref.TxRef))
	if err != nil {
		return anchor.Payload{}, fmt.Errorf("failed to fetch anchor transaction '%s': %w", ref.TxRef, err)
	}

	var payload anchor.Payload
	if err := json.Unmarshal(tx.Data(), &payload); err != nil {
		return anchor.Payload{}, fmt.Errorf("transaction '%s' does not carry an anchor payload: %w", ref.TxRef, err)
	}

	return payload, nil
}

// BuildAnchorTx builds and signs an anchor transaction without
// submitting it, returning its RLP hex encoding and hash. Callers decide
// how and when to broadcast.
func (c *Client) BuildAnchorTx(ctx context.Context, payload anchor.Payload) (txHex, txHash string, err error) {
	tx, err := c.buildTx(ctx, payload)
	if err != nil {
		return "", "", err
	}

	raw, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode anchor transaction: %w", err)
	}

	return "0x" + hex.EncodeToString(raw), tx.Hash().Hex(), nil
}

func (c *Client) buildTx(ctx context.Context, payload anchor.Payload) (*types.Transaction, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal anchor payload: %w", err)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce for '%s': %w", c.from.Hex(), err)
	}

	gasPrice := c.config.GasPrice
	if gasPrice == nil {
		gasPrice = big.NewInt(0)
	}

	key, err := crypto.HexToECDSA(c.config.PrivateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse anchor signing key: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.to,
		Value:    big.NewInt(0),
		Gas:      c.config.GasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, c.signer, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign anchor transaction: %w", err)
	}

	return signed, nil
}
