package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readSchema loads path as JSON or YAML. A missing file is an empty schema
// when allowMissing is set.
func readSchema(path string, allowMissing bool) (fieldschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return fieldschema.Schema{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if isYAML(path) {
		return fieldschema.DecodeYAML(data)
	}
	return fieldschema.Decode(string(data))
}

func writeSchema(path string, schema fieldschema.Schema) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = fieldschema.EncodeYAML(schema)
	} else {
		var encoded string
		encoded, err = fieldschema.Encode(schema)
		data = []byte(encoded + "\n")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
