package fieldschema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

func TestParseOptions(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		raw  string
		want []string
	}{
		"empty":            {raw: "", want: nil},
		"whitespace only":  {raw: "  ,  , ", want: nil},
		"trims and orders": {raw: "Red, Green ,Blue", want: []string{"Red", "Green", "Blue"}},
		"keeps duplicates": {raw: "a,a, b", want: []string{"a", "a", "b"}},
		"drops empties":    {raw: ",x,,y,", want: []string{"x", "y"}},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, fieldschema.ParseOptions(tc.raw)); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewDescriptor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		fieldName string
		fieldType string
		options   string
		want      fieldschema.FieldDescriptor
		wantMsg   string
	}{
		{
			name:      "blank name",
			fieldName: "   ",
			fieldType: "VARCHAR(255)",
			wantMsg:   fieldschema.MessageNameAndType,
		},
		{
			name:      "missing type",
			fieldName: "Age",
			wantMsg:   fieldschema.MessageNameAndType,
		},
		{
			name:      "unknown type",
			fieldName: "Age",
			fieldType: "BLOB",
			wantMsg:   `Unknown field type "BLOB".`,
		},
		{
			name:      "name checked before type",
			fieldType: "BLOB",
			wantMsg:   fieldschema.MessageNameAndType,
		},
		{
			name:      "non choice type ignores options",
			fieldName: "  Age ",
			fieldType: "INTEGER",
			options:   "1,2",
			want:      fieldschema.FieldDescriptor{Name: "Age", Type: fieldschema.FieldTypeInteger},
		},
		{
			name:      "choice without options",
			fieldName: "Color",
			fieldType: "SELECT",
			options:   " , ",
			wantMsg:   fieldschema.MessageOptionsRequired,
		},
		{
			name:      "choice with options",
			fieldName: "Color",
			fieldType: "SELECT",
			options:   "Red, Green ,Blue",
			want: fieldschema.FieldDescriptor{
				Name:    "Color",
				Type:    fieldschema.FieldTypeSelect,
				Options: []string{"Red", "Green", "Blue"},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := fieldschema.NewDescriptor(tc.fieldName, tc.fieldType, tc.options)
			if tc.wantMsg != "" {
				var verr *fieldschema.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if verr.Message != tc.wantMsg {
					t.Fatalf("message mismatch: want %q, got %q", tc.wantMsg, verr.Message)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateRejectsOptionsOnPlainTypes(t *testing.T) {
	t.Parallel()

	err := fieldschema.Validate(fieldschema.FieldDescriptor{
		Name:    "Age",
		Type:    fieldschema.FieldTypeInteger,
		Options: []string{"1"},
	})
	var verr *fieldschema.ValidationError
	if !errors.As(err, &verr) || verr.Message != fieldschema.MessageOptionsNotAllow {
		t.Fatalf("expected options-not-allowed error, got %v", err)
	}
}

func TestValidateSchemaReportsIndexes(t *testing.T) {
	t.Parallel()

	schema := fieldschema.Schema{
		{Name: "Ok", Type: fieldschema.FieldTypeEmail},
		{Name: "", Type: fieldschema.FieldTypeEmail},
		{Name: "Pick", Type: fieldschema.FieldTypeRadio},
	}
	errs := fieldschema.ValidateSchema(schema, true)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	var first fieldschema.IndexedError
	if !errors.As(errs[0], &first) || first.Index != 1 {
		t.Fatalf("expected first error at index 1, got %v", errs[0])
	}
	var second fieldschema.IndexedError
	if !errors.As(errs[1], &second) || second.Index != 2 {
		t.Fatalf("expected second error at index 2, got %v", errs[1])
	}

	empty := fieldschema.ValidateSchema(nil, true)
	if len(empty) != 1 || !errors.Is(empty[0], fieldschema.ErrEmptySchema) {
		t.Fatalf("expected empty schema error, got %v", empty)
	}
}

func TestEncodePrettyPrints(t *testing.T) {
	t.Parallel()

	schema := fieldschema.Schema{
		{Name: "Age", Type: fieldschema.FieldTypeShortText},
		{Name: "Color <b>", Type: fieldschema.FieldTypeSelect, Options: []string{"Red", "Blue"}},
	}
	got, err := fieldschema.Encode(schema)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `[
  {
    "name": "Age",
    "type": "VARCHAR(255)"
  },
  {
    "name": "Color <b>",
    "type": "SELECT",
    "options": [
      "Red",
      "Blue"
    ]
  }
]`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmptySchema(t *testing.T) {
	t.Parallel()

	for _, schema := range []fieldschema.Schema{nil, {}} {
		got, err := fieldschema.Encode(schema)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if got != "[]" {
			t.Fatalf("expected [], got %q", got)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	got, err := fieldschema.Decode(` [{"name":"Color","type":"RADIO","options":["a","b"]},{"name":"Age","type":"INTEGER"}] `)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := fieldschema.Schema{
		{Name: "Color", Type: fieldschema.FieldTypeRadio, Options: []string{"a", "b"}},
		{Name: "Age", Type: fieldschema.FieldTypeInteger},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}

	for _, raw := range []string{"", "   ", "null"} {
		empty, err := fieldschema.Decode(raw)
		if err != nil || len(empty) != 0 {
			t.Fatalf("expected empty schema for %q, got %v (%v)", raw, empty, err)
		}
	}

	for _, raw := range []string{"not json", `{"name":"x"}`, `[{"name":`, `[1,2]`} {
		if _, err := fieldschema.Decode(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	if _, err := fieldschema.Decode(`{"name":"x"}`); !errors.Is(err, fieldschema.ErrNotArray) {
		t.Fatalf("expected ErrNotArray, got %v", err)
	}
}

func TestDecodeValidDropsInvalidEntries(t *testing.T) {
	t.Parallel()

	kept, dropped, err := fieldschema.DecodeValid(`[
  {"name": "A", "type": "EMAIL"},
  {"name": "B", "type": "SELECT"},
  {"name": "C", "type": "UNKNOWN"},
  {"name": "D", "type": "MULTISELECT", "options": ["x"]}
]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "D"}, kept.Names()); diff != "" {
		t.Fatalf("kept mismatch (-want +got):\n%s", diff)
	}
	if len(dropped) != 2 {
		t.Fatalf("expected 2 dropped entries, got %v", dropped)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	schema := fieldschema.Schema{
		{Name: "Name", Type: fieldschema.FieldTypeShortText},
		{Name: "Name", Type: fieldschema.FieldTypeTextArea},
		{Name: "Tags", Type: fieldschema.FieldTypeMultiSelect, Options: []string{"x", "x", "y"}},
	}
	text, err := fieldschema.Encode(schema)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := fieldschema.Decode(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(schema, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	data, err := fieldschema.EncodeYAML(schema)
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	fromYAML, err := fieldschema.DecodeYAML(data)
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(schema, fromYAML); diff != "" {
		t.Fatalf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldTypeHelpers(t *testing.T) {
	t.Parallel()

	if len(fieldschema.KnownTypes()) != 13 {
		t.Fatalf("expected 13 known types, got %d", len(fieldschema.KnownTypes()))
	}
	for _, ft := range []fieldschema.FieldType{fieldschema.FieldTypeSelect, fieldschema.FieldTypeRadio, fieldschema.FieldTypeMultiSelect} {
		if !ft.RequiresOptions() {
			t.Fatalf("%s should require options", ft)
		}
	}
	if fieldschema.FieldTypeCheckbox.RequiresOptions() {
		t.Fatalf("CHECKBOX must not require options")
	}
	if got, ok := fieldschema.ParseFieldType(" DATE "); !ok || got != fieldschema.FieldTypeDate {
		t.Fatalf("expected DATE, got %q (%v)", got, ok)
	}
	if _, ok := fieldschema.ParseFieldType("date"); ok {
		t.Fatalf("type matching must be exact")
	}
	if fieldschema.FieldType("CUSTOM").Label() != "CUSTOM" {
		t.Fatalf("unknown label should fall back to the tag")
	}

	dupes := fieldschema.Schema{{Name: "a"}, {Name: "b"}, {Name: "a"}}.DuplicateNames()
	if diff := cmp.Diff([]string{"a"}, dupes); diff != "" {
		t.Fatalf("duplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := fieldschema.Normalize(fieldschema.FieldDescriptor{
		Name:    "  Budget\xff ",
		Type:    " SELECT ",
		Options: []string{" 1,000-5,000 ", "", "  ", "5,000+\xfe"},
	})
	want := fieldschema.FieldDescriptor{
		Name:    "Budget\uFFFD",
		Type:    fieldschema.FieldTypeSelect,
		Options: []string{"1,000-5,000", "5,000+\uFFFD"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
	if got := fieldschema.Normalize(fieldschema.FieldDescriptor{Name: "x", Type: "EMAIL", Options: []string{" "}}); got.Options != nil {
		t.Fatalf("expected nil options, got %#v", got.Options)
	}
}

func TestNewDescriptorReplacesInvalidUTF8(t *testing.T) {
	t.Parallel()

	got, err := fieldschema.NewDescriptor("Na\xffme", "RADIO", "x\xfe, y")
	if err != nil {
		t.Fatalf("new descriptor: %v", err)
	}
	want := fieldschema.FieldDescriptor{Name: "Na\uFFFDme", Type: fieldschema.FieldTypeRadio, Options: []string{"x\uFFFD", "y"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}

	encoded, err := fieldschema.Encode(fieldschema.Schema{got})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := fieldschema.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(fieldschema.Schema{want}, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
