package fieldschema

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncodeYAML renders the schema as a YAML sequence. It is an export format
// only; hosts persist the JSON encoding.
func EncodeYAML(s Schema) ([]byte, error) {
	if s == nil {
		s = Schema{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("fieldschema: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("fieldschema: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses a YAML sequence of descriptors.
func DecodeYAML(data []byte) (Schema, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Schema{}, nil
	}
	var out Schema
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("fieldschema: decode yaml: %w", err)
	}
	if out == nil {
		out = Schema{}
	}
	return out, nil
}
