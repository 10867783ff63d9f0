// Package structured assembles schema.org documents for generated pages.
package structured

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/goliatone/go-aipages/internal/validation"
)

const schemaContext = "https://schema.org"

// Award category labels.
const (
	CategoryBusinessExcellence = "Business Excellence"
	CategoryCertification      = "Professional Certification"
)

// Document is a JSON-compatible structured data tree.
type Document map[string]any

// Type returns the document's @type.
func (d Document) Type() string {
	value, _ := d["@type"].(string)
	return value
}

// JSON renders the document for embedding in a page.
func (d Document) JSON() ([]byte, error) {
	return json.Marshal(d)
}

// Map converts the document into a plain map decoded from JSON, which is the
// shape persisted alongside pages.
func (d Document) Map() (map[string]any, error) {
	encoded, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clone returns a deep copy of the document. Nested maps and slices are
// copied so edits to the clone never reach the original tree.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Document:
		return v.Clone()
	case map[string]any:
		return cloneMap(v)
	case []map[string]any:
		if v == nil {
			return v
		}
		out := make([]map[string]any, len(v))
		for i, item := range v {
			out[i] = cloneMap(item)
		}
		return out
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(v)
	default:
		return value
	}
}

//go:embed schema/document.json
var documentSchemaJSON []byte

var documentSchema = validation.MustCompile("structured-document.json", documentSchemaJSON)

// Validate checks that doc carries the schema.org discriminators and that
// its well-known blocks are shaped correctly.
func Validate(doc Document) error {
	return documentSchema.Validate(map[string]any(doc))
}
