package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

// Fixture returns the absolute path of a file under this package's testdata
// directory so tests in any package can share schema fixtures.
func Fixture(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// LoadSchema reads a stored schema and rejects invalid descriptors.
func LoadSchema(path string) (fieldschema.Schema, error) {
	if path == "" {
		return nil, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read schema: %w", err)
	}
	schema, err := fieldschema.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode schema: %w", err)
	}
	if errs := fieldschema.ValidateSchema(schema, false); len(errs) > 0 {
		return nil, fmt.Errorf("testsupport: %s: %w", path, errors.Join(errs...))
	}
	return schema, nil
}

// MustLoadSchema is LoadSchema for tests.
func MustLoadSchema(t *testing.T, path string) fieldschema.Schema {
	t.Helper()

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
