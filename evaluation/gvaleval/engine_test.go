package gvaleval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-trust-sdk/evaluation"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := New()
	require.NoError(t, err)

	return engine
}

func TestEngineIdentity(t *testing.T) {
	engine := newEngine(t)

	assert.Equal(t, "gval", engine.EngineID())
	assert.Equal(t, "1.0", engine.Version())
	assert.Equal(t, []string{ConditionTypeExpression, ConditionTypeJSONPath}, engine.SupportedConditionTypes())
}

func TestImplementationHashComputedOnce(t *testing.T) {
	engine := newEngine(t)

	hash := engine.ImplementationHash()
	assert.NotEmpty(t, hash)
	assert.Equal(t, hash, engine.ImplementationHash())

	// A fresh engine of the same version carries the same hash.
	other := newEngine(t)
	assert.Equal(t, hash, other.ImplementationHash())
}

func TestEvaluateExpressionCondition(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	input := map[string]interface{}{
		"amount":  150.0,
		"country": "DE",
	}

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{name: "Numeric comparison true", expression: "input.amount > 100", expected: true},
		{name: "Numeric comparison false", expression: "input.amount > 1000", expected: false},
		{name: "String equality", expression: `input.country == "DE"`, expected: true},
		{name: "Conjunction", expression: `input.amount > 100 && input.country == "DE"`, expected: true},
		{name: "Context access", expression: `context.role == "issuer"`, expected: true},
		{name: "Params access", expression: "input.amount > params.threshold", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := evaluation.Condition{
				ID:         "c1",
				Type:       ConditionTypeExpression,
				Expression: tt.expression,
				Params:     map[string]interface{}{"threshold": 100.0},
			}

			holds, err := engine.EvaluateCondition(ctx, cond, input, evaluation.Context{"role": "issuer"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, holds)
		})
	}
}

func TestEvaluateExpressionNonBoolean(t *testing.T) {
	engine := newEngine(t)

	cond := evaluation.Condition{ID: "c1", Type: ConditionTypeExpression, Expression: "input.amount + 1"}

	_, err := engine.EvaluateCondition(context.Background(), cond, map[string]interface{}{"amount": 1.0}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want bool")
}

func TestEvaluateJSONPathCondition(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	input := map[string]interface{}{
		"credentialSubject": map[string]interface{}{"degree": "BSc"},
	}

	cond := evaluation.Condition{
		ID:         "has-degree",
		Type:       ConditionTypeJSONPath,
		Expression: "$.input.credentialSubject.degree",
	}

	holds, err := engine.EvaluateCondition(ctx, cond, input, nil)
	require.NoError(t, err)
	assert.True(t, holds)

	cond.Expression = "$.input.credentialSubject.missing"
	holds, err = engine.EvaluateCondition(ctx, cond, input, nil)
	require.NoError(t, err)
	assert.False(t, holds)
}

func TestEvaluateUnsupportedConditionType(t *testing.T) {
	engine := newEngine(t)

	cond := evaluation.Condition{ID: "c1", Type: "wasm", Expression: "..."}

	_, err := engine.EvaluateCondition(context.Background(), cond, nil, nil)
	require.Error(t, err)

	var unsupported *evaluation.UnsupportedConditionTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "wasm", unsupported.ConditionType)
}

func TestEvaluateConditionsBatch(t *testing.T) {
	engine := newEngine(t)

	conds := []evaluation.Condition{
		{ID: "over-threshold", Type: ConditionTypeExpression, Expression: "input.amount > 100"},
		{ID: "in-region", Type: ConditionTypeExpression, Expression: `input.country == "FR"`},
		{ID: "has-subject", Type: ConditionTypeJSONPath, Expression: "$.input.country"},
	}

	results, err := engine.EvaluateConditions(context.Background(), conds,
		map[string]interface{}{"amount": 150.0, "country": "DE"}, nil)
	require.NoError(t, err)

	// Every requested id is present, including the false ones.
	require.Len(t, results, 3)
	assert.True(t, results["over-threshold"])
	assert.False(t, results["in-region"])
	assert.True(t, results["has-subject"])
}

func TestEvaluateConditionsBatchFailsWhole(t *testing.T) {
	engine := newEngine(t)

	conds := []evaluation.Condition{
		{ID: "ok", Type: ConditionTypeExpression, Expression: "input.amount > 100"},
		{ID: "bad", Type: "wasm", Expression: "..."},
	}

	results, err := engine.EvaluateConditions(context.Background(), conds,
		map[string]interface{}{"amount": 150.0}, nil)
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestEvaluateConditionsRejectsDuplicateIDs(t *testing.T) {
	engine := newEngine(t)

	conds := []evaluation.Condition{
		{ID: "c1", Type: ConditionTypeExpression, Expression: "true == true"},
		{ID: "c1", Type: ConditionTypeExpression, Expression: "true == false"},
	}

	_, err := engine.EvaluateConditions(context.Background(), conds, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate condition id")
}

func TestEvaluateConditionsRejectsMissingID(t *testing.T) {
	engine := newEngine(t)

	conds := []evaluation.Condition{{Type: ConditionTypeExpression, Expression: "1 > 0"}}

	_, err := engine.EvaluateConditions(context.Background(), conds, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}
