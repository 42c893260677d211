// Package gvaleval provides the reference condition-evaluation engine,
// built on the gval expression language with JSONPath placeholders.
package gvaleval

import (
	"context"
	"fmt"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"

	"github.com/pilacorp/go-trust-sdk/evaluation"
)

const (
	engineID      = "gval"
	engineVersion = "1.0"

	// ConditionTypeExpression evaluates a gval boolean expression.
	ConditionTypeExpression = "expression"
	// ConditionTypeJSONPath evaluates a JSONPath selection; the
	// condition holds when the selection yields a value.
	ConditionTypeJSONPath = "jsonpath"
)

// Engine evaluates expression and jsonpath conditions.
type Engine struct {
	language           gval.Language
	implementationHash string
}

// New constructs the engine and computes its implementation hash.
func New() (*Engine, error) {
	hash, err := evaluation.ImplementationHash(
		engineID,
		engineVersion,
		"gval.Full(jsonpath.PlaceholderExtension())",
		ConditionTypeExpression,
		ConditionTypeJSONPath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute implementation hash: %w", err)
	}

	return &Engine{
		language:           gval.Full(jsonpath.PlaceholderExtension()),
		implementationHash: hash,
	}, nil
}

// EngineID returns the engine's stable identifier.
func (e *Engine) EngineID() string {
	return engineID
}

// Version returns the engine's version string.
func (e *Engine) Version() string {
	return engineVersion
}

// ImplementationHash returns the hash computed at construction.
func (e *Engine) ImplementationHash() string {
	return e.implementationHash
}

// SupportedConditionTypes returns the condition types this engine
// evaluates.
func (e *Engine) SupportedConditionTypes() []string {
	return []string{ConditionTypeExpression, ConditionTypeJSONPath}
}

// EvaluateCondition evaluates a single condition against the input
// document and evaluation context.
func (e *Engine) EvaluateCondition(ctx context.Context, cond evaluation.Condition, input map[string]interface{}, evalCtx evaluation.Context) (bool, error) {
	data := map[string]interface{}{
		"input":   input,
		"context": map[string]interface{}(evalCtx),
		"params":  cond.Params,
	}

	switch cond.Type {
	case ConditionTypeExpression:
		result, err := e.language.Evaluate(cond.Expression, data)
		if err != nil {
			return false, fmt.Errorf("failed to evaluate condition '%s': %w", cond.ID, err)
		}

		holds, ok := result.(bool)
		if !ok {
			return false, fmt.Errorf("condition '%s' evaluated to %T, want bool", cond.ID, result)
		}

		return holds, nil

	case ConditionTypeJSONPath:
		result, err := jsonpath.Get(cond.Expression, data)
		if err != nil {
			// A selection that matches nothing is a false condition,
			// not an evaluation failure.
			return false, nil
		}

		return result != nil, nil

	default:
		return false, &evaluation.UnsupportedConditionTypeError{
			EngineID:      engineID,
			ConditionType: cond.Type,
		}
	}
}

// EvaluateConditions evaluates a batch of conditions. The first failure
// aborts the batch; on success the result map carries every requested
// condition id.
func (e *Engine) EvaluateConditions(ctx context.Context, conds []evaluation.Condition, input map[string]interface{}, evalCtx evaluation.Context) (map[string]bool, error) {
	results := make(map[string]bool, len(conds))

	for _, cond := range conds {
		if cond.ID == "" {
			return nil, fmt.Errorf("condition of type '%s' has no id", cond.Type)
		}

		if _, dup := results[cond.ID]; dup {
			return nil, fmt.Errorf("duplicate condition id '%s' in batch", cond.ID)
		}

		holds, err := e.EvaluateCondition(ctx, cond, input, evalCtx)
		if err != nil {
			return nil, err
		}

		results[cond.ID] = holds
	}

	return results, nil
}
