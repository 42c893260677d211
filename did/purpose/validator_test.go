package purpose

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-trust-sdk/did"
)

const issuerDID = "did:example:issuer"

type stubResolver struct {
	results map[string]did.ResolutionResult
}

func (s *stubResolver) Resolve(ctx context.Context, didStr string) did.ResolutionResult {
	if result, ok := s.results[didStr]; ok {
		return result
	}

	return did.ResolutionResult{
		Status: did.ResolutionNotFound,
		Err:    fmt.Errorf("DID '%s' not found", didStr),
	}
}

func issuerDocument() *did.Document {
	return &did.Document{
		ID: issuerDID,
		VerificationMethod: []did.VerificationMethod{
			{ID: issuerDID + "#key-1", Type: "JsonWebKey2020", Controller: issuerDID},
		},
		Authentication:  []did.Entry{{Reference: issuerDID + "#auth-key"}},
		AssertionMethod: []did.Entry{{Reference: issuerDID + "#key-1"}},
	}
}

func resolverFor(doc *did.Document) *stubResolver {
	return &stubResolver{results: map[string]did.ResolutionResult{
		doc.ID: {Status: did.ResolutionOK, Document: doc},
	}}
}

func TestValidatePurposeAssertionMethod(t *testing.T) {
	validator := NewValidator(resolverFor(issuerDocument()))

	result, err := validator.ValidatePurpose(context.Background(), "assertionMethod", "#key-1", issuerDID)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidatePurposeWrongRelationship(t *testing.T) {
	validator := NewValidator(resolverFor(issuerDocument()))

	// key-1 is authorized for assertionMethod, not authentication.
	result, err := validator.ValidatePurpose(context.Background(), "authentication", "#key-1", issuerDID)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "authentication")
}

func TestValidatePurposeReferenceForms(t *testing.T) {
	// The same verification method may be referenced by full DID URL,
	// bare fragment, or bare key id, and the document entry may itself
	// be a full URL or a bare fragment. Every combination must match.
	refForms := []string{issuerDID + "#key-1", "#key-1", "key-1"}
	entryForms := []string{issuerDID + "#key-1", "#key-1"}

	for _, entry := range entryForms {
		for _, ref := range refForms {
			t.Run(fmt.Sprintf("entry=%s/ref=%s", entry, ref), func(t *testing.T) {
				doc := issuerDocument()
				doc.AssertionMethod = []did.Entry{{Reference: entry}}

				validator := NewValidator(resolverFor(doc))

				result, err := validator.ValidatePurpose(context.Background(), "assertionMethod", ref, issuerDID)
				require.NoError(t, err)
				assert.True(t, result.Valid, "entry %q should authorize ref %q", entry, ref)
			})
		}
	}
}

func TestValidatePurposeEmbeddedMethodEntry(t *testing.T) {
	doc := issuerDocument()
	doc.AssertionMethod = []did.Entry{{
		Method: &did.VerificationMethod{ID: issuerDID + "#key-1", Type: "JsonWebKey2020"},
	}}

	validator := NewValidator(resolverFor(doc))

	result, err := validator.ValidatePurpose(context.Background(), "assertionMethod", "#key-1", issuerDID)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidatePurposeUnknownPurpose(t *testing.T) {
	validator := NewValidator(resolverFor(issuerDocument()))

	tests := []string{"proofOfPossession", "assertion", "", "Authentication"}

	for _, purpose := range tests {
		t.Run(fmt.Sprintf("purpose=%q", purpose), func(t *testing.T) {
			result, err := validator.ValidatePurpose(context.Background(), purpose, "#key-1", issuerDID)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], "unknown proof purpose")
		})
	}
}

func TestValidatePurposeUnresolvableIssuer(t *testing.T) {
	validator := NewValidator(resolverFor(issuerDocument()))

	result, err := validator.ValidatePurpose(context.Background(), "assertionMethod", "#key-1", "did:example:stranger")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "did:example:stranger")
}

func TestValidatePurposeTransientResolutionIsError(t *testing.T) {
	resolver := &stubResolver{results: map[string]did.ResolutionResult{
		issuerDID: {
			Status: did.ResolutionTransient,
			Err:    fmt.Errorf("resolver unreachable"),
		},
	}}

	validator := NewValidator(resolver)

	result, err := validator.ValidatePurpose(context.Background(), "assertionMethod", "#key-1", issuerDID)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), issuerDID)
}

func TestValidatePurposeMembershipIsAuthoritative(t *testing.T) {
	// The relationship entry authorizes a key that is absent from the
	// general verification-method list; membership still wins.
	doc := issuerDocument()
	doc.AssertionMethod = []did.Entry{{Reference: "#undeclared-key"}}

	validator := NewValidator(resolverFor(doc))

	result, err := validator.ValidatePurpose(context.Background(), "assertionMethod", "#undeclared-key", issuerDID)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Conversely, a key declared in the method list but missing from
	// the relationship is not authorized.
	result, err = validator.ValidatePurpose(context.Background(), "assertionMethod", "#key-1", issuerDID)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidatePurposeAllRelationships(t *testing.T) {
	relationships := []string{
		"authentication",
		"assertionMethod",
		"keyAgreement",
		"capabilityInvocation",
		"capabilityDelegation",
	}

	for _, purpose := range relationships {
		t.Run(purpose, func(t *testing.T) {
			doc := &did.Document{
				ID: issuerDID,
			}

			entry := []did.Entry{{Reference: "#key-1"}}
			switch purpose {
			case "authentication":
				doc.Authentication = entry
			case "assertionMethod":
				doc.AssertionMethod = entry
			case "keyAgreement":
				doc.KeyAgreement = entry
			case "capabilityInvocation":
				doc.CapabilityInvocation = entry
			case "capabilityDelegation":
				doc.CapabilityDelegation = entry
			}

			validator := NewValidator(resolverFor(doc))

			result, err := validator.ValidatePurpose(context.Background(), purpose, "#key-1", issuerDID)
			require.NoError(t, err)
			assert.True(t, result.Valid)

			// The same key is not authorized under any other purpose.
			for _, other := range relationships {
				if other == purpose {
					continue
				}

				result, err := validator.ValidatePurpose(context.Background(), other, "#key-1", issuerDID)
				require.NoError(t, err)
				assert.False(t, result.Valid, "purpose %q should not authorize", other)
			}
		})
	}
}
