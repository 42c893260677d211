package did

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pilacorp/go-trust-sdk/credential/common/logging"
)

var logger = logging.New("did-resolver")

// ResolutionStatus tags the outcome of a resolution call.
type ResolutionStatus int

const (
	// ResolutionOK means the DID resolved to a document.
	ResolutionOK ResolutionStatus = iota
	// ResolutionNotFound means the method resolver found no document.
	ResolutionNotFound
	// ResolutionInvalidDID means the DID string is malformed.
	ResolutionInvalidDID
	// ResolutionMethodUnsupported means no resolver is registered for
	// the DID's method.
	ResolutionMethodUnsupported
	// ResolutionTransient means resolution failed for infrastructure
	// reasons and may succeed on retry. Callers must not treat it as a
	// semantic not-found.
	ResolutionTransient
)

func (s ResolutionStatus) String() string {
	switch s {
	case ResolutionOK:
		return "ok"
	case ResolutionNotFound:
		return "not-found"
	case ResolutionInvalidDID:
		return "invalid-did"
	case ResolutionMethodUnsupported:
		return "method-unsupported"
	case ResolutionTransient:
		return "transient-error"
	default:
		return "unknown"
	}
}

// ResolutionResult is the tagged outcome of resolving a DID. Document is
// set only when Status is ResolutionOK; Err carries detail for the
// failure statuses.
type ResolutionResult struct {
	Status   ResolutionStatus
	Document *Document
	Err      error
}

// OK reports whether the resolution produced a document.
func (r ResolutionResult) OK() bool {
	return r.Status == ResolutionOK && r.Document != nil
}

// Resolver resolves a DID to a document.
type Resolver interface {
	Resolve(ctx context.Context, didStr string) ResolutionResult
}

// MethodResolver resolves DIDs of a single method.
type MethodResolver interface {
	Resolve(ctx context.Context, didStr string) ResolutionResult
}

// MethodFromDID extracts the method segment from a DID string.
func MethodFromDID(didStr string) (string, error) {
	parts := strings.SplitN(didStr, ":", 3)
	if len(parts) < 3 || parts[0] != "did" || parts[1] == "" || parts[2] == "" {
		return "", fmt.Errorf("invalid DID '%s': expected did:<method>:<identifier>", didStr)
	}

	return parts[1], nil
}

// Registry is the resolution facade: it dispatches a DID to the method
// resolver registered for its method segment. The registry holds no
// state beyond the method table and performs no caching.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]MethodResolver
}

// NewRegistry returns an empty method-resolver registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]MethodResolver)}
}

// RegisterMethod registers the resolver for a DID method. Registering
// the same method twice is a conflict.
func (r *Registry) RegisterMethod(method string, resolver MethodResolver) error {
	if method == "" {
		return fmt.Errorf("method name is empty")
	}

	if resolver == nil {
		return fmt.Errorf("resolver for method '%s' is nil", method)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.methods[method]; exists {
		return fmt.Errorf("resolver for method '%s' is already registered", method)
	}

	r.methods[method] = resolver

	return nil
}

// Methods returns the registered method names in sorted order.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := maps.Keys(r.methods)
	slices.Sort(methods)

	return methods
}

// Resolve dispatches the DID to the resolver registered for its method.
func (r *Registry) Resolve(ctx context.Context, didStr string) ResolutionResult {
	method, err := MethodFromDID(didStr)
	if err != nil {
		return ResolutionResult{Status: ResolutionInvalidDID, Err: err}
	}

	r.mu.RLock()
	resolver, ok := r.methods[method]
	r.mu.RUnlock()

	if !ok {
		logger.Debugw("no resolver registered for DID method", "method", method)

		return ResolutionResult{
			Status: ResolutionMethodUnsupported,
			Err:    fmt.Errorf("no resolver registered for DID method '%s'", method),
		}
	}

	return resolver.Resolve(ctx, didStr)
}
