package anchor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrChainRegistered is returned when a chain id already has a
	// registered client.
	ErrChainRegistered = errors.New("chain already registered")

	// ErrUnknownChain is returned when no client is registered for a
	// chain id.
	ErrUnknownChain = errors.New("unknown chain")
)

// Registry maps chain identifiers to anchor clients. At most one client
// may be registered per chain id for the lifetime of the registry.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewRegistry returns an empty chain registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a client under its chain id. A second registration for
// the same chain id fails with ErrChainRegistered.
func (r *Registry) Register(client Client) error {
	if client == nil {
		return fmt.Errorf("client is nil")
	}

	chainID := client.ChainID()
	if chainID == "" {
		return fmt.Errorf("client chain id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[chainID]; exists {
		return fmt.Errorf("chain '%s': %w", chainID, ErrChainRegistered)
	}

	r.clients[chainID] = client

	return nil
}

// Get returns the client registered for the chain id.
func (r *Registry) Get(chainID string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[chainID]

	return client, ok
}

// Chains returns the registered chain ids in sorted order.
func (r *Registry) Chains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chains := maps.Keys(r.clients)
	slices.Sort(chains)

	return chains
}

// Anchor writes the payload through the client registered for the chain
// id, failing with ErrUnknownChain if none is registered.
func (r *Registry) Anchor(ctx context.Context, chainID string, payload Payload) (Ref, error) {
	client, ok := r.Get(chainID)
	if !ok {
		return Ref{}, fmt.Errorf("chain '%s': %w", chainID, ErrUnknownChain)
	}

	return client.Write(ctx, payload)
}

// Read returns the payload anchored under ref, failing with
// ErrUnknownChain if the ref's chain has no registered client.
func (r *Registry) Read(ctx context.Context, ref Ref) (Payload, error) {
	client, ok := r.Get(ref.ChainID)
	if !ok {
		return Payload{}, fmt.Errorf("chain '%s': %w", ref.ChainID, ErrUnknownChain)
	}

	return client.Read(ctx, ref)
}
