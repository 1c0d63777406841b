package editor

import "github.com/goliatone/go-fieldbuilder/pkg/fieldschema"

// Placeholder is shown when the schema has no fields.
const Placeholder = "No fields defined."

// View is the display representation of a schema. It is a pure function of
// the schema; see BuildView.
type View struct {
	Empty       bool   `json:"empty"`
	Placeholder string `json:"placeholder,omitempty"`
	Rows        []Row  `json:"rows"`
}

// Row is one rendered descriptor. Index is the position the removal control
// reports and is only valid for the render that produced it.
type Row struct {
	Index       int                   `json:"index"`
	Name        string                `json:"name"`
	Type        fieldschema.FieldType `json:"type"`
	TypeLabel   string                `json:"type_label"`
	HasOptions  bool                  `json:"has_options"`
	Options     []string              `json:"options,omitempty"`
	OptionsText string                `json:"options_text,omitempty"`
}

// BuildView renders the schema into rows in schema order.
func BuildView(schema fieldschema.Schema) View {
	if len(schema) == 0 {
		return View{Empty: true, Placeholder: Placeholder, Rows: []Row{}}
	}
	rows := make([]Row, len(schema))
	for i, field := range schema {
		row := Row{
			Index:     i,
			Name:      field.Name,
			Type:      field.Type,
			TypeLabel: field.Type.Label(),
		}
		if field.Options != nil {
			row.HasOptions = true
			row.Options = append([]string(nil), field.Options...)
			row.OptionsText = fieldschema.JoinOptions(field.Options)
		}
		rows[i] = row
	}
	return View{Rows: rows}
}
