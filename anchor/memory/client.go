// Package memory provides an in-process anchor client. It backs tests
// and hosts that want anchor semantics without a ledger.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pilacorp/go-trust-sdk/anchor"
)

// Client is an in-memory anchor client. It is safe for concurrent use.
type Client struct {
	chainID string

	mu      sync.RWMutex
	records map[string]anchor.Payload
}

// New creates a client for the given chain namespace.
func New(chainID string) *Client {
	return &Client{
		chainID: chainID,
		records: make(map[string]anchor.Payload),
	}
}

// ChainID returns the client's chain namespace.
func (c *Client) ChainID() string {
	return c.chainID
}

// Write stores the payload under a fresh record handle.
func (c *Client) Write(ctx context.Context, payload anchor.Payload) (anchor.Ref, error) {
	txRef := uuid.NewString()

	c.mu.Lock()
	c.records[txRef] = payload
	c.mu.Unlock()

	return anchor.Ref{ChainID: c.chainID, TxRef: txRef}, nil
}

// Read returns the payload stored under the ref's record handle.
func (c *Client) Read(ctx context.Context, ref anchor.Ref) (anchor.Payload, error) {
	c.mu.RLock()
	payload, ok := c.records[ref.TxRef]
	c.mu.RUnlock()

	if !ok {
		return anchor.Payload{}, fmt.Errorf("no anchor record '%s' on chain '%s'", ref.TxRef, c.chainID)
	}

	return payload, nil
}

// Len reports the number of stored records.
func (c *Client) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.records)
}
