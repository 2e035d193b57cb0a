// Package serializer provides the serialization facility handed to the
// repository for structured columns.
package serializer

import (
	"encoding/json"

	"github.com/bft-labs/autoorganize/internal/ports"
)

// JSON implements ports.Serializer with encoding/json.
type JSON struct{}

// NewJSON creates a JSON serializer.
func NewJSON() JSON {
	return JSON{}
}

// Marshal encodes v as compact JSON.
func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

var _ ports.Serializer = JSON{}
