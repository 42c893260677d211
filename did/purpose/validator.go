// Package purpose validates that a proof's claimed purpose is authorized
// by the issuer's DID document: the proof's verification method must
// appear in the document's matching verification-relationship list.
package purpose

import (
	"context"
	"fmt"

	"github.com/pilacorp/go-trust-sdk/credential/common/logging"
	"github.com/pilacorp/go-trust-sdk/did"
)

var logger = logging.New("proof-purpose")

// proofPurposes maps each recognized proof purpose to the
// verification-relationship list it is checked against.
var proofPurposes = map[string]did.VerificationRelationship{
	"authentication":       did.Authentication,
	"assertionMethod":      did.AssertionMethod,
	"keyAgreement":         did.KeyAgreement,
	"capabilityInvocation": did.CapabilityInvocation,
	"capabilityDelegation": did.CapabilityDelegation,
}

// Result is the semantic outcome of a purpose validation. Errors is
// non-empty whenever Valid is false.
type Result struct {
	Valid  bool
	Errors []string
}

// Validator checks proof purposes against resolved issuer documents.
type Validator struct {
	resolver did.Resolver
}

// NewValidator creates a validator backed by the given resolver.
func NewValidator(resolver did.Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// ValidatePurpose checks that vmRef appears in the issuer document's
// relationship list matching proofPurpose. The returned Result reports
// semantic failures (unresolvable issuer, unknown purpose, membership
// mismatch); a non-nil error is reserved for infrastructure failures
// such as an unreachable resolution service, which must never be
// conflated with an invalid proof.
func (v *Validator) ValidatePurpose(ctx context.Context, proofPurpose, vmRef, issuerDID string) (*Result, error) {
	resolution := v.resolver.Resolve(ctx, issuerDID)

	if resolution.Status == did.ResolutionTransient {
		return nil, fmt.Errorf("failed to resolve issuer '%s': %w", issuerDID, resolution.Err)
	}

	if !resolution.OK() {
		return invalid(fmt.Sprintf("could not resolve issuer DID '%s': %s", issuerDID, resolution.Status)), nil
	}

	doc := resolution.Document

	relationship, known := proofPurposes[proofPurpose]
	if !known {
		return invalid(fmt.Sprintf("unknown proof purpose '%s'", proofPurpose)), nil
	}

	normalized := did.NormalizeReference(vmRef, issuerDID)

	// The reference may appear in the document in any of three textual
	// forms; entries themselves may be bare fragments.
	candidates := map[string]struct{}{
		normalized:                        {},
		vmRef:                             {},
		did.FragmentReference(normalized): {},
	}

	if _, declared := doc.FindVerificationMethod(normalized); !declared {
		// Informational only: relationship membership is authoritative
		// regardless of the general method list.
		logger.Debugw("verification method not declared in document method list",
			"did", issuerDID, "verificationMethod", normalized)
	}

	entries, _ := doc.Relationship(relationship)
	for _, entry := range entries {
		if _, ok := candidates[entry.ID()]; ok {
			return &Result{Valid: true}, nil
		}
	}

	return invalid(fmt.Sprintf(
		"verification method '%s' is not authorized for proof purpose '%s' in document '%s'",
		normalized, proofPurpose, doc.ID)), nil
}

func invalid(msgs ...string) *Result {
	return &Result{Valid: false, Errors: msgs}
}
