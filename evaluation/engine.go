// Package evaluation defines the contract for pluggable, versioned
// condition-evaluation engines. Each engine publishes a content hash of
// its own logic at construction time, which downstream contract logic
// uses as a tamper-detection anchor.
package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// Condition is a single evaluatable condition.
type Condition struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Expression string                 `json:"expression"`
	Params     map[string]interface{} `json:"params,omitempty"`
}

// Context carries evaluation-scoped data made available to conditions
// alongside the input document.
type Context map[string]interface{}

// UnsupportedConditionTypeError reports a condition whose type is
// outside an engine's declared set.
type UnsupportedConditionTypeError struct {
	EngineID      string
	ConditionType string
}

func (e *UnsupportedConditionTypeError) Error() string {
	return fmt.Sprintf("engine '%s' does not support condition type '%s'", e.EngineID, e.ConditionType)
}

// Engine evaluates conditions against input data. Implementations
// compute their implementation hash once at construction and never
// recompute it.
type Engine interface {
	// EngineID returns the engine's stable identifier.
	EngineID() string

	// Version returns the engine's version string.
	Version() string

	// ImplementationHash returns the content hash of the engine's
	// logic, computed once at construction.
	ImplementationHash() string

	// SupportedConditionTypes returns the condition types this engine
	// evaluates.
	SupportedConditionTypes() []string

	// EvaluateCondition evaluates a single condition. It fails with an
	// UnsupportedConditionTypeError for condition types outside the
	// declared set.
	EvaluateCondition(ctx context.Context, cond Condition, input map[string]interface{}, evalCtx Context) (bool, error)

	// EvaluateConditions evaluates a batch. Either the whole batch
	// fails, or the result map carries an entry for every requested
	// condition id.
	EvaluateConditions(ctx context.Context, conds []Condition, input map[string]interface{}, evalCtx Context) (map[string]bool, error)
}

// ImplementationHash derives the content hash for an engine's logic
// descriptor: a sha2-256 multihash of the joined parts, encoded as a
// base58btc multibase string.
func ImplementationHash(parts ...string) (string, error) {
	mh, err := multihash.Sum([]byte(strings.Join(parts, "\n")), multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("failed to hash engine descriptor: %w", err)
	}

	encoded, err := multibase.Encode(multibase.Base58BTC, mh)
	if err != nil {
		return "", fmt.Errorf("failed to encode engine hash: %w", err)
	}

	return encoded, nil
}
