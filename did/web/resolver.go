// Package web resolves DIDs against an HTTP resolver endpoint that
// serves DID documents at <baseURL>/<did>.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pilacorp/go-trust-sdk/did"
)

const defaultTimeout = 10 * time.Second

// Resolver resolves DIDs from a resolver endpoint.
type Resolver struct {
	baseURL string
	client  *http.Client
}

// Opt configures the resolver.
type Opt func(*Resolver)

// WithHTTPClient overrides the HTTP client used for resolution calls.
func WithHTTPClient(client *http.Client) Opt {
	return func(r *Resolver) {
		r.client = client
	}
}

// NewResolver creates a resolver for the given endpoint base URL. The
// default client carries an instrumented transport and a 10s timeout.
func NewResolver(baseURL string, opts ...Opt) *Resolver {
	r := &Resolver{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve fetches and parses the DID document from the resolver
// endpoint, mapping HTTP outcomes onto the resolution taxonomy.
func (r *Resolver) Resolve(ctx context.Context, didStr string) did.ResolutionResult {
	if _, err := did.MethodFromDID(didStr); err != nil {
		return did.ResolutionResult{Status: did.ResolutionInvalidDID, Err: err}
	}

	apiURL := r.baseURL + "/" + url.PathEscape(didStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return did.ResolutionResult{
			Status: did.ResolutionInvalidDID,
			Err:    fmt.Errorf("failed to build resolver request for '%s': %w", didStr, err),
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return did.ResolutionResult{
			Status: did.ResolutionTransient,
			Err:    fmt.Errorf("failed to reach DID resolver for '%s': %w", didStr, err),
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return did.ResolutionResult{
			Status: did.ResolutionNotFound,
			Err:    fmt.Errorf("DID '%s' not found", didStr),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return did.ResolutionResult{
			Status: did.ResolutionInvalidDID,
			Err:    fmt.Errorf("DID resolver rejected '%s': %s", didStr, resp.Status),
		}
	default:
		return did.ResolutionResult{
			Status: did.ResolutionTransient,
			Err:    fmt.Errorf("DID resolver returned %s for '%s'", resp.Status, didStr),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return did.ResolutionResult{
			Status: did.ResolutionTransient,
			Err:    fmt.Errorf("failed to read resolver response for '%s': %w", didStr, err),
		}
	}

	var doc did.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return did.ResolutionResult{
			Status: did.ResolutionTransient,
			Err:    fmt.Errorf("failed to unmarshal DID document for '%s': %w", didStr, err),
		}
	}

	return did.ResolutionResult{Status: did.ResolutionOK, Document: &doc}
}
