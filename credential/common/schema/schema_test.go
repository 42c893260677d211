package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-trust-sdk/credential/common/jsonmap"
)

const degreeSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["credentialSubject"],
	"properties": {
		"credentialSubject": {
			"type": "object",
			"required": ["degree"],
			"properties": {"degree": {"type": "string"}}
		}
	}
}`

func credentialWithSubject(subject map[string]interface{}) jsonmap.JSONMap {
	return jsonmap.JSONMap{
		"id":     "urn:uuid:1",
		"issuer": "did:example:issuer",
		"credentialSchema": map[string]interface{}{
			"id":   "https://example.org/schemas/degree",
			"type": "JsonSchema",
		},
		"credentialSubject": subject,
	}
}

func TestValidateCredential(t *testing.T) {
	loader := StringLoader{"https://example.org/schemas/degree": degreeSchema}

	err := ValidateCredential(credentialWithSubject(map[string]interface{}{"degree": "BSc"}), loader)
	assert.NoError(t, err)
}

func TestValidateCredentialSchemaViolation(t *testing.T) {
	loader := StringLoader{"https://example.org/schemas/degree": degreeSchema}

	err := ValidateCredential(credentialWithSubject(map[string]interface{}{"name": "John"}), loader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateCredentialUnknownSchema(t *testing.T) {
	err := ValidateCredential(credentialWithSubject(map[string]interface{}{"degree": "BSc"}), StringLoader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema registered")
}

func TestValidateCredentialMalformedEntries(t *testing.T) {
	tests := []struct {
		name     string
		m        jsonmap.JSONMap
		errorMsg string
	}{
		{
			name:     "Non-object entry",
			m:        jsonmap.JSONMap{"credentialSchema": []interface{}{"https://example.org/s"}},
			errorMsg: "must be an object",
		},
		{
			name:     "Missing id",
			m:        jsonmap.JSONMap{"credentialSchema": map[string]interface{}{"type": "JsonSchema"}},
			errorMsg: "credentialSchema.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredential(tt.m, StringLoader{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestValidateCredentialNoSchemas(t *testing.T) {
	assert.NoError(t, ValidateCredential(jsonmap.JSONMap{"id": "urn:uuid:1"}, nil))
}
