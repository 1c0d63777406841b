package testsupport_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
	"github.com/goliatone/go-fieldbuilder/pkg/testsupport"
)

func TestMustLoadSchema_Intake(t *testing.T) {
	schema := testsupport.MustLoadSchema(t, testsupport.Fixture("intake.json"))
	if len(schema) != 6 {
		t.Fatalf("expected 6 fields, got %d", len(schema))
	}
	if schema[3].Type != fieldschema.FieldTypeSelect || len(schema[3].Options) != 2 {
		t.Fatalf("unexpected choice field %+v", schema[3])
	}
}

func TestLoadSchema_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"name":"","type":"EMAIL"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := testsupport.LoadSchema(path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := testsupport.LoadSchema(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
