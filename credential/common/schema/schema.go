// Package schema validates credentials against the JSON Schemas named in
// their credentialSchema entries.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pilacorp/go-trust-sdk/credential/common/jsonmap"
)

// Loader supplies a schema document for a schema id. The default loader
// fetches the schema from the id itself, treating it as a URL.
type Loader interface {
	Load(schemaID string) (gojsonschema.JSONLoader, error)
}

type referenceLoader struct{}

func (referenceLoader) Load(schemaID string) (gojsonschema.JSONLoader, error) {
	return gojsonschema.NewReferenceLoader(schemaID), nil
}

// StringLoader serves a fixed set of schema documents keyed by id. It is
// used when schemas are pinned locally instead of fetched remotely.
type StringLoader map[string]string

// Load returns the pinned schema document for the given id.
func (l StringLoader) Load(schemaID string) (gojsonschema.JSONLoader, error) {
	doc, ok := l[schemaID]
	if !ok {
		return nil, fmt.Errorf("no schema registered for id '%s'", schemaID)
	}

	return gojsonschema.NewStringLoader(doc), nil
}

// ValidateCredential validates the credential document against every
// schema referenced by its credentialSchema field. A credential without
// credentialSchema entries passes validation.
func ValidateCredential(m jsonmap.JSONMap, loader Loader) error {
	if loader == nil {
		loader = referenceLoader{}
	}

	for _, entry := range m.ArrayField("credentialSchema") {
		schemaMap, ok := entry.(map[string]interface{})
		if !ok {
			return fmt.Errorf("credentialSchema entry must be an object, got %T", entry)
		}

		schemaID, ok := schemaMap["id"].(string)
		if !ok || schemaID == "" {
			return fmt.Errorf("credentialSchema.id must be a non-empty string")
		}

		schemaLoader, err := loader.Load(schemaID)
		if err != nil {
			return fmt.Errorf("failed to load schema '%s': %w", schemaID, err)
		}

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(m))
		if err != nil {
			return fmt.Errorf("failed to validate against schema '%s': %w", schemaID, err)
		}

		if !result.Valid() {
			return fmt.Errorf("credential validation failed against schema '%s': %v", schemaID, result.Errors())
		}
	}

	return nil
}
