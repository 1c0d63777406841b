package fieldschema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

const indent = "  "

// ErrNotArray is returned when the serialized value is not a JSON array.
var ErrNotArray = errors.New("fieldschema: serialized schema must be a JSON array")

// Encode serialises the schema into the pretty-printed store format: two space
// indentation, no HTML escaping, no trailing newline. An empty or nil schema
// encodes as "[]".
func Encode(s Schema) (string, error) {
	if s == nil {
		s = Schema{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("fieldschema: encode: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// MustEncode is Encode for schemas that are known to be encodable.
func MustEncode(s Schema) string {
	out, err := Encode(s)
	if err != nil {
		panic(err)
	}
	return out
}

// Decode parses the store format. Blank input and a JSON null decode to an
// empty schema. Anything that is not an array of objects is an error; the
// descriptors themselves are not validated here.
func Decode(raw string) (Schema, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return Schema{}, nil
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, ErrNotArray
	}
	var out Schema
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, fmt.Errorf("fieldschema: decode: %w", err)
	}
	if out == nil {
		out = Schema{}
	}
	return out, nil
}

// DecodeValid decodes raw and keeps only the descriptors that validate. The
// dropped entries are reported as IndexedErrors against their original
// positions.
func DecodeValid(raw string) (Schema, []error, error) {
	decoded, err := Decode(raw)
	if err != nil {
		return Schema{}, nil, err
	}
	kept := make(Schema, 0, len(decoded))
	var dropped []error
	for i, field := range decoded {
		if verr := Validate(field); verr != nil {
			dropped = append(dropped, IndexedError{Index: i, Err: verr})
			continue
		}
		kept = append(kept, field)
	}
	return kept, dropped, nil
}
