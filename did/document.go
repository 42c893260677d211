// Package did provides the DID document model and a resolution facade
// over pluggable method resolvers.
package did

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VerificationRelationship names one of the five relationship lists in a
// DID document.
type VerificationRelationship string

const (
	Authentication       VerificationRelationship = "authentication"
	AssertionMethod      VerificationRelationship = "assertionMethod"
	KeyAgreement         VerificationRelationship = "keyAgreement"
	CapabilityInvocation VerificationRelationship = "capabilityInvocation"
	CapabilityDelegation VerificationRelationship = "capabilityDelegation"
)

// VerificationMethod is a single verification method in a DID document.
type VerificationMethod struct {
	ID           string `json:"id"`
	Type         string `json:"type,omitempty"`
	Controller   string `json:"controller,omitempty"`
	PublicKeyHex string `json:"publicKeyHex,omitempty"`
	PublicKeyJwk *JWK   `json:"publicKeyJwk,omitempty"`
}

// JWK represents a JSON Web Key structure.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// Entry is one element of a verification-relationship list: either a
// DID-URL reference to a verification method, or a method embedded
// inline.
type Entry struct {
	Reference string
	Method    *VerificationMethod
}

// ID returns the entry's reference, falling back to the embedded
// method's id.
func (e Entry) ID() string {
	if e.Reference != "" {
		return e.Reference
	}

	if e.Method != nil {
		return e.Method.ID
	}

	return ""
}

// UnmarshalJSON accepts both the reference-string and the embedded-
// object forms.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var ref string
	if err := json.Unmarshal(data, &ref); err == nil {
		e.Reference = ref
		e.Method = nil

		return nil
	}

	var method VerificationMethod
	if err := json.Unmarshal(data, &method); err != nil {
		return fmt.Errorf("relationship entry must be a string or an object: %w", err)
	}

	e.Reference = ""
	e.Method = &method

	return nil
}

// MarshalJSON emits the reference form when set, the embedded form
// otherwise.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Reference != "" {
		return json.Marshal(e.Reference)
	}

	return json.Marshal(e.Method)
}

// Document is a resolved DID document. Documents are produced fresh on
// each resolution and never mutated afterwards.
type Document struct {
	Context              []string               `json:"@context,omitempty"`
	ID                   string                 `json:"id"`
	VerificationMethod   []VerificationMethod   `json:"verificationMethod,omitempty"`
	Authentication       []Entry                `json:"authentication,omitempty"`
	AssertionMethod      []Entry                `json:"assertionMethod,omitempty"`
	KeyAgreement         []Entry                `json:"keyAgreement,omitempty"`
	CapabilityInvocation []Entry                `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []Entry                `json:"capabilityDelegation,omitempty"`
	Controller           interface{}            `json:"controller,omitempty"` // Can be string or []string
	Metadata             map[string]interface{} `json:"didDocumentMetadata,omitempty"`
}

// Relationship returns the relationship list named by rel.
func (d *Document) Relationship(rel VerificationRelationship) ([]Entry, bool) {
	switch rel {
	case Authentication:
		return d.Authentication, true
	case AssertionMethod:
		return d.AssertionMethod, true
	case KeyAgreement:
		return d.KeyAgreement, true
	case CapabilityInvocation:
		return d.CapabilityInvocation, true
	case CapabilityDelegation:
		return d.CapabilityDelegation, true
	default:
		return nil, false
	}
}

// FindVerificationMethod looks up a verification method by id in the
// document's general method list.
func (d *Document) FindVerificationMethod(id string) (*VerificationMethod, bool) {
	for i := range d.VerificationMethod {
		if d.VerificationMethod[i].ID == id {
			return &d.VerificationMethod[i], true
		}
	}

	return nil, false
}

// NormalizeReference normalizes a verification-method reference against
// an issuer DID into a full DID URL. Already-DID-prefixed references are
// returned unchanged; fragment-prefixed references are concatenated with
// the issuer DID; other references containing '#' are returned
// unchanged, and the rest are appended to the issuer DID as a fragment.
func NormalizeReference(ref, issuerDID string) string {
	switch {
	case strings.HasPrefix(ref, "did:"):
		return ref
	case strings.HasPrefix(ref, "#"):
		return issuerDID + ref
	case strings.Contains(ref, "#"):
		return ref
	default:
		return issuerDID + "#" + ref
	}
}

// FragmentReference returns the bare '#fragment' form of a reference,
// or the reference itself when it carries no fragment.
func FragmentReference(ref string) string {
	if idx := strings.Index(ref, "#"); idx >= 0 {
		return ref[idx:]
	}

	return ref
}
