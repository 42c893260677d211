// Package processor provides JSON-LD canonicalization for credential
// documents. Canonical output is the basis for digest computation, so
// it must be byte-stable across key ordering of the source document.
package processor

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// Opt represents an option for JSON-LD processing.
type Opt func(*Options)

// Options holds configuration for JSON-LD processing.
type Options struct {
	documentLoader ld.DocumentLoader
}

// WithDocumentLoader sets the document loader for JSON-LD processing.
func WithDocumentLoader(loader ld.DocumentLoader) Opt {
	return func(o *Options) {
		o.documentLoader = loader
	}
}

// defaultDocumentLoader is a shared caching loader to prevent repeated
// context fetches across function calls.
var defaultDocumentLoader ld.DocumentLoader

func init() {
	innerLoader := ld.NewDefaultDocumentLoader(nil)
	defaultDocumentLoader = ld.NewCachingDocumentLoader(innerLoader)
}

// Canonicalize normalizes a document with the URDNA2015 algorithm and
// returns its canonical N-Quads form.
func Canonicalize(doc map[string]interface{}, opts ...Opt) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	options := &Options{documentLoader: defaultDocumentLoader}
	for _, opt := range opts {
		opt(options)
	}

	proc := ld.NewJsonLdProcessor()

	jsonldOptions := ld.NewJsonLdOptions("")
	jsonldOptions.Format = "application/n-quads"
	jsonldOptions.Algorithm = ld.AlgorithmURDNA2015
	jsonldOptions.DocumentLoader = options.documentLoader

	canonicalized, err := proc.Normalize(doc, jsonldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}

	result, ok := canonicalized.(string)
	if !ok {
		return nil, fmt.Errorf("failed to normalize document: unexpected result type %T", canonicalized)
	}

	return []byte(result), nil
}
