// Package credential provides the W3C Verifiable Credential model used
// across the SDK: parsing, serialization, proof access, and anchor
// evidence handling.
package credential

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-trust-sdk/credential/common/dto"
	"github.com/pilacorp/go-trust-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-trust-sdk/credential/common/schema"
)

// Credential is a verifiable credential backed by its JSON document.
// The backing document is treated as read-only; operations that change
// the credential return a new copy.
type Credential struct {
	data jsonmap.JSONMap
}

// Opt configures credential processing options.
type Opt func(*options)

type options struct {
	validateSchema bool
	schemaLoader   schema.Loader
}

// WithSchemaValidation enables schema validation during credential parsing.
func WithSchemaValidation() Opt {
	return func(o *options) {
		o.validateSchema = true
	}
}

// WithSchemaLoader sets a custom loader for pinned credential schemas and
// enables schema validation.
func WithSchemaLoader(loader schema.Loader) Opt {
	return func(o *options) {
		o.validateSchema = true
		o.schemaLoader = loader
	}
}

// Parse parses a JSON credential document.
func Parse(raw []byte, opts ...Opt) (*Credential, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	m, err := jsonmap.FromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	if o.validateSchema {
		if err := schema.ValidateCredential(m, o.schemaLoader); err != nil {
			return nil, fmt.Errorf("failed to validate credential: %w", err)
		}
	}

	return &Credential{data: m}, nil
}

// FromMap wraps an already-parsed credential document.
func FromMap(m jsonmap.JSONMap) (*Credential, error) {
	if m == nil {
		return nil, fmt.Errorf("credential document is nil")
	}

	return &Credential{data: m}, nil
}

// ID returns the credential identifier.
func (c *Credential) ID() string {
	id, _ := c.data.StringField("id")
	return id
}

// Issuer returns the issuer identifier. Both the string form and the
// expanded object form ({"id": ...}) are supported.
func (c *Credential) Issuer() string {
	switch v := c.data["issuer"].(type) {
	case string:
		return v
	case map[string]interface{}:
		id, _ := v["id"].(string)
		return id
	default:
		return ""
	}
}

// Types returns the credential type list.
func (c *Credential) Types() []string {
	var types []string

	for _, t := range c.data.ArrayField("type") {
		if s, ok := t.(string); ok {
			types = append(types, s)
		}
	}

	return types
}

// Document returns the credential's backing JSON document. Callers must
// not mutate the returned map.
func (c *Credential) Document() jsonmap.JSONMap {
	return c.data
}

// ToJSON serializes the credential document.
func (c *Credential) ToJSON() ([]byte, error) {
	return c.data.ToJSON()
}

// HasProof reports whether the credential carries at least one proof.
func (c *Credential) HasProof() bool {
	return len(c.data.ArrayField("proof")) > 0
}

// Proofs returns the credential's proofs.
func (c *Credential) Proofs() ([]dto.Proof, error) {
	entries := c.data.ArrayField("proof")

	proofs := make([]dto.Proof, 0, len(entries))

	for i, entry := range entries {
		proofMap, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("proof entry at index %d must be an object, got %T", i, entry)
		}

		proof, err := parseProof(proofMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proof at index %d: %w", i, err)
		}

		proofs = append(proofs, proof)
	}

	return proofs, nil
}

// Evidence returns the credential's evidence entries. Entries that are
// not objects are skipped.
func (c *Credential) Evidence() []dto.Evidence {
	entries := c.data.ArrayField("evidence")

	evidence := make([]dto.Evidence, 0, len(entries))

	for _, entry := range entries {
		entryMap, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		var ev dto.Evidence
		if data, err := json.Marshal(entryMap); err == nil {
			if err := json.Unmarshal(data, &ev); err == nil {
				evidence = append(evidence, ev)
			}
		}
	}

	return evidence
}

// WithEvidence returns a copy of the credential with the given evidence
// entry appended. The receiver is left unchanged.
func (c *Credential) WithEvidence(ev dto.Evidence) (*Credential, error) {
	if ev.Type == "" {
		return nil, fmt.Errorf("evidence type is required")
	}

	data, err := c.data.Copy()
	if err != nil {
		return nil, fmt.Errorf("failed to copy credential: %w", err)
	}

	encoded, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evidence: %w", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(encoded, &entry); err != nil {
		return nil, fmt.Errorf("failed to normalize evidence: %w", err)
	}

	data["evidence"] = append(data.ArrayField("evidence"), entry)

	return &Credential{data: data}, nil
}

// parseProof converts a single proof map into a Proof struct.
func parseProof(proof map[string]interface{}) (dto.Proof, error) {
	var result dto.Proof

	if t, ok := proof["type"].(string); ok && t != "" {
		result.Type = t
	} else {
		return dto.Proof{}, fmt.Errorf("invalid or missing type field")
	}

	if vm, ok := proof["verificationMethod"].(string); ok {
		result.VerificationMethod = vm
	}

	if pp, ok := proof["proofPurpose"].(string); ok {
		result.ProofPurpose = pp
	}

	if created, ok := proof["created"].(string); ok {
		result.Created = created
	}

	if pv, ok := proof["proofValue"].(string); ok {
		result.ProofValue = pv
	}

	if jws, ok := proof["jws"].(string); ok {
		result.JWS = jws
	}

	if cs, ok := proof["cryptosuite"].(string); ok {
		result.Cryptosuite = cs
	}

	if ch, ok := proof["challenge"].(string); ok {
		result.Challenge = ch
	}

	if dm, ok := proof["domain"].(string); ok {
		result.Domain = dm
	}

	if disclosures, ok := proof["disclosures"].([]interface{}); ok {
		for _, d := range disclosures {
			if ds, ok := d.(string); ok {
				result.Disclosures = append(result.Disclosures, ds)
			}
		}
	}

	return result, nil
}
