package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

// Extension keys written on exported schemas.
const (
	ExtensionWidget = "x-formgen-widget"
	ExtensionType   = "x-fieldbuilder-type"
	ExtensionOrder  = "x-fieldbuilder-order"
)

// Option customises an export.
type Option func(*exportConfig)

type exportConfig struct {
	version string
	path    string
	summary string
}

// WithVersion sets info.version. Defaults to "1.0.0".
func WithVersion(version string) Option {
	return func(cfg *exportConfig) {
		if v := strings.TrimSpace(version); v != "" {
			cfg.version = v
		}
	}
}

// WithPath sets the submission path. Defaults to "/submissions".
func WithPath(path string) Option {
	return func(cfg *exportConfig) {
		p := strings.TrimSpace(path)
		if p == "" {
			return
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		cfg.path = p
	}
}

// WithSummary sets the operation summary.
func WithSummary(summary string) Option {
	return func(cfg *exportConfig) {
		cfg.summary = strings.TrimSpace(summary)
	}
}

// Result is an exported document plus diagnostics.
type Result struct {
	Document *openapi3.T
	// SchemaName is the component schema key and the suffix of the
	// operation id.
	SchemaName string
	// Duplicates lists names used by more than one field. Only the last
	// field with a given name is kept as a property.
	Duplicates []string
}

// Export builds an OpenAPI document for a form called title with fields from
// schema. Invalid descriptors are rejected rather than skipped.
func Export(ctx context.Context, title string, schema fieldschema.Schema, opts ...Option) (*Result, error) {
	cfg := exportConfig{version: "1.0.0", path: "/submissions"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("openapi: form title required")
	}
	if errs := fieldschema.ValidateSchema(schema, false); len(errs) > 0 {
		return nil, fmt.Errorf("openapi: invalid schema: %w", errors.Join(errs...))
	}

	name := SchemaName(title)
	object := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Title:      title,
		Properties: make(openapi3.Schemas, len(schema)),
		Extensions: map[string]any{ExtensionOrder: orderOf(schema)},
	}
	for _, field := range schema {
		object.Properties[field.Name] = openapi3.NewSchemaRef("", Property(field))
	}

	summary := cfg.summary
	if summary == "" {
		summary = "Submit " + title
	}
	operation := &openapi3.Operation{
		OperationID: "submit" + name,
		Summary:     summary,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+name, object)),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission stored")}),
			openapi3.WithStatus(400, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission rejected")}),
		),
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: cfg.version},
		Paths:   openapi3.NewPaths(openapi3.WithPath(cfg.path, &openapi3.PathItem{Post: operation})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{name: openapi3.NewSchemaRef("", object)},
		},
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}

	return &Result{
		Document:   doc,
		SchemaName: name,
		Duplicates: schema.DuplicateNames(),
	}, nil
}

// JSON marshals the document with two-space indentation.
func (r *Result) JSON() ([]byte, error) {
	if r == nil || r.Document == nil {
		return nil, errors.New("openapi: empty result")
	}
	raw, err := r.Document.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal json: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("openapi: marshal json: %w", err)
	}
	return json.MarshalIndent(generic, "", "  ")
}

// YAML marshals the document as YAML.
func (r *Result) YAML() ([]byte, error) {
	raw, err := r.JSON()
	if err != nil {
		return nil, err
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("openapi: marshal yaml: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal yaml: %w", err)
	}
	return out, nil
}

// Property maps one descriptor to its property schema.
func Property(field fieldschema.FieldDescriptor) *openapi3.Schema {
	s := &openapi3.Schema{
		Title:      field.Name,
		Extensions: map[string]any{ExtensionType: field.Type.String()},
	}
	widget := "input"

	switch field.Type {
	case fieldschema.FieldTypeShortText:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.MaxLength = openapi3.Uint64Ptr(255)
	case fieldschema.FieldTypeTextArea:
		s.Type = &openapi3.Types{openapi3.TypeString}
		widget = "textarea"
	case fieldschema.FieldTypeEmail:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.Format = "email"
	case fieldschema.FieldTypePhone:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.Format = "phone"
	case fieldschema.FieldTypePassword:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.Format = "password"
		widget = "password"
	case fieldschema.FieldTypeInteger:
		s.Type = &openapi3.Types{openapi3.TypeInteger}
		widget = "number"
	case fieldschema.FieldTypeFloat:
		s.Type = &openapi3.Types{openapi3.TypeNumber}
		widget = "number"
	case fieldschema.FieldTypeCheckbox:
		s.Type = &openapi3.Types{openapi3.TypeBoolean}
		widget = "checkbox"
	case fieldschema.FieldTypeDate:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.Format = "date"
		widget = "date"
	case fieldschema.FieldTypeDateTime:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.Format = "date-time"
		widget = "datetime"
	case fieldschema.FieldTypeSelect:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.Enum = enumOf(field.Options)
		widget = "select"
	case fieldschema.FieldTypeRadio:
		s.Type = &openapi3.Types{openapi3.TypeString}
		s.Enum = enumOf(field.Options)
		widget = "radio"
	case fieldschema.FieldTypeMultiSelect:
		s.Type = &openapi3.Types{openapi3.TypeArray}
		s.UniqueItems = true
		s.Items = openapi3.NewSchemaRef("", &openapi3.Schema{
			Type: &openapi3.Types{openapi3.TypeString},
			Enum: enumOf(field.Options),
		})
		widget = "select"
	default:
		s.Type = &openapi3.Types{openapi3.TypeString}
	}
	s.Extensions[ExtensionWidget] = widget
	return s
}

// SchemaName turns a free-form title into a component key: words are
// capitalised and joined, anything that is not a letter or digit is dropped.
func SchemaName(title string) string {
	var b strings.Builder
	upper := true
	for _, r := range title {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if r > unicode.MaxASCII {
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Form"
	}
	return b.String()
}

func enumOf(options []string) []any {
	out := make([]any, len(options))
	for i, option := range options {
		out[i] = option
	}
	return out
}

func orderOf(schema fieldschema.Schema) []any {
	out := make([]any, 0, len(schema))
	seen := make(map[string]struct{}, len(schema))
	for _, field := range schema {
		if _, ok := seen[field.Name]; ok {
			continue
		}
		seen[field.Name] = struct{}{}
		out = append(out, field.Name)
	}
	return out
}
