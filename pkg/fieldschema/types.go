package fieldschema

import "strings"

// FieldType is the wire tag identifying the kind of a field.
type FieldType string

const (
	FieldTypeShortText   FieldType = "VARCHAR(255)"
	FieldTypeTextArea    FieldType = "TEXTAREA"
	FieldTypeEmail       FieldType = "EMAIL"
	FieldTypePhone       FieldType = "PHONE"
	FieldTypePassword    FieldType = "PASSWORD"
	FieldTypeInteger     FieldType = "INTEGER"
	FieldTypeFloat       FieldType = "FLOAT"
	FieldTypeSelect      FieldType = "SELECT"
	FieldTypeRadio       FieldType = "RADIO"
	FieldTypeMultiSelect FieldType = "MULTISELECT"
	FieldTypeCheckbox    FieldType = "CHECKBOX"
	FieldTypeDate        FieldType = "DATE"
	FieldTypeDateTime    FieldType = "DATETIME"
)

var knownTypes = []FieldType{
	FieldTypeShortText,
	FieldTypeTextArea,
	FieldTypeEmail,
	FieldTypePhone,
	FieldTypePassword,
	FieldTypeInteger,
	FieldTypeFloat,
	FieldTypeSelect,
	FieldTypeRadio,
	FieldTypeMultiSelect,
	FieldTypeCheckbox,
	FieldTypeDate,
	FieldTypeDateTime,
}

var typeLabels = map[FieldType]string{
	FieldTypeShortText:   "Short text",
	FieldTypeTextArea:    "Long text",
	FieldTypeEmail:       "Email",
	FieldTypePhone:       "Phone",
	FieldTypePassword:    "Password",
	FieldTypeInteger:     "Integer",
	FieldTypeFloat:       "Decimal",
	FieldTypeSelect:      "Single choice",
	FieldTypeRadio:       "Radio choice",
	FieldTypeMultiSelect: "Multiple choice",
	FieldTypeCheckbox:    "Checkbox",
	FieldTypeDate:        "Date",
	FieldTypeDateTime:    "Date & time",
}

// KnownTypes returns the closed set of field types in selector order.
func KnownTypes() []FieldType {
	return append([]FieldType(nil), knownTypes...)
}

// ParseFieldType trims raw and reports whether it names a known type. Matching
// is exact on the tag.
func ParseFieldType(raw string) (FieldType, bool) {
	candidate := FieldType(strings.TrimSpace(raw))
	if candidate.Known() {
		return candidate, true
	}
	return candidate, false
}

// Known reports whether t is one of the closed set of tags.
func (t FieldType) Known() bool {
	_, ok := typeLabels[t]
	return ok
}

// RequiresOptions reports whether descriptors of this type must carry a
// non-empty options list.
func (t FieldType) RequiresOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeMultiSelect:
		return true
	default:
		return false
	}
}

// Label returns a human label, falling back to the raw tag.
func (t FieldType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t FieldType) String() string {
	return string(t)
}

// FieldDescriptor is one schema entry. Options is nil for types that do not
// require options.
type FieldDescriptor struct {
	Name    string    `json:"name" yaml:"name" validate:"required"`
	Type    FieldType `json:"type" yaml:"type" validate:"required,fieldtype"`
	Options []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Clone returns a deep copy of the descriptor.
func (d FieldDescriptor) Clone() FieldDescriptor {
	out := d
	if d.Options != nil {
		out.Options = append([]string(nil), d.Options...)
	}
	return out
}

// Schema is the ordered list of descriptors. Duplicate names are permitted.
type Schema []FieldDescriptor

// Clone returns a deep copy that never aliases the receiver's backing array.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for i, field := range s {
		out[i] = field.Clone()
	}
	return out
}

// Names lists the field names in schema order.
func (s Schema) Names() []string {
	if len(s) == 0 {
		return nil
	}
	names := make([]string, len(s))
	for i, field := range s {
		names[i] = field.Name
	}
	return names
}

// DuplicateNames returns names that appear more than once, in first-seen order.
func (s Schema) DuplicateNames() []string {
	counts := make(map[string]int, len(s))
	var order []string
	for _, field := range s {
		if counts[field.Name] == 0 {
			order = append(order, field.Name)
		}
		counts[field.Name]++
	}
	var dupes []string
	for _, name := range order {
		if counts[name] > 1 {
			dupes = append(dupes, name)
		}
	}
	return dupes
}
