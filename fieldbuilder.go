// Package fieldbuilder edits the ordered list of field descriptors that
// defines a form. The editor lives in pkg/editor and is UI agnostic; the HTML
// and terminal renderers bind it to concrete controls.
//
// The helpers here cover the common headless case:
//
//	ed, mem, err := fieldbuilder.NewHeadless(stored)
//	mem.Fill("Color", "SELECT", "Red, Blue")
//	mem.Add.Activate()
//	stored = ed.Serialized()
package fieldbuilder

import (
	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

// Schema aliases the descriptor list for callers of the root package.
type Schema = fieldschema.Schema

// NewHeadless binds an editor to in-memory controls seeded with the stored
// schema. The returned Memory is how callers drive it.
func NewHeadless(stored string, opts ...editor.Option) (*editor.Editor, *editor.Memory, error) {
	mem := editor.NewMemory(stored)
	ed, err := editor.New(mem.Controls(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return ed, mem, nil
}

// Validate reports every invalid descriptor in a stored schema. An empty
// schema is rejected when requireFields is set.
func Validate(stored string, requireFields bool) (Schema, []error, error) {
	schema, err := fieldschema.Decode(stored)
	if err != nil {
		return nil, nil, err
	}
	return schema, fieldschema.ValidateSchema(schema, requireFields), nil
}
