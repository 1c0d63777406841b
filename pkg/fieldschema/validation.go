package fieldschema

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// User-facing validation messages.
const (
	MessageNameAndType     = "Please provide a field name and type."
	MessageOptionsRequired = "Please provide comma-separated options."
	MessageOptionsNotAllow = "Options are only allowed on choice fields."
	MessageBlankOption     = "Options must not be blank."
	MessageEmptySchema     = "The form must have at least one field."
)

// ValidationError describes why a descriptor was rejected. Message is safe to
// show to end users.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "fieldschema: " + e.Message
	}
	return fmt.Sprintf("fieldschema: %s: %s", e.Field, e.Message)
}

// IndexedError ties a validation error to a schema position.
type IndexedError struct {
	Index int
	Err   error
}

func (e IndexedError) Error() string {
	return fmt.Sprintf("field %d: %v", e.Index, e.Err)
}

func (e IndexedError) Unwrap() error {
	return e.Err
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func descriptorValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
			return FieldType(fl.Field().String()).Known()
		})
		v.RegisterStructValidation(descriptorStructRules, FieldDescriptor{})
		validate = v
	})
	return validate
}

func descriptorStructRules(sl validator.StructLevel) {
	d, ok := sl.Current().Interface().(FieldDescriptor)
	if !ok {
		return
	}
	if d.Name != "" && strings.TrimSpace(d.Name) == "" {
		sl.ReportError(d.Name, "Name", "name", "required", "")
	}
	if !d.Type.Known() {
		return
	}
	switch {
	case d.Type.RequiresOptions() && len(d.Options) == 0:
		sl.ReportError(d.Options, "Options", "options", "options_required", "")
	case !d.Type.RequiresOptions() && d.Options != nil:
		sl.ReportError(d.Options, "Options", "options", "options_forbidden", "")
	}
	for _, option := range d.Options {
		if strings.TrimSpace(option) == "" {
			sl.ReportError(d.Options, "Options", "options", "blank_option", "")
			return
		}
	}
}

// NewDescriptor validates raw user input and builds a descriptor. Invalid
// UTF-8 is replaced with U+FFFD. Checks run in order: name, type, then
// options for choice types. The returned error is
// a *ValidationError.
func NewDescriptor(name, fieldType, rawOptions string) (FieldDescriptor, error) {
	candidate := FieldDescriptor{
		Name: strings.TrimSpace(validText(name)),
		Type: FieldType(strings.TrimSpace(validText(fieldType))),
	}
	if candidate.Type.RequiresOptions() {
		candidate.Options = ParseOptions(rawOptions)
	}
	if err := Validate(candidate); err != nil {
		return FieldDescriptor{}, err
	}
	return candidate, nil
}

// Validate checks a single descriptor and returns the first violation.
func Validate(d FieldDescriptor) error {
	err := descriptorValidator().Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("fieldschema: validate descriptor: %w", err)
	}
	return translate(d, fieldErrs[0])
}

// ValidateSchema validates every descriptor and reports one IndexedError per
// invalid entry. When requireFields is set an empty schema is rejected too.
func ValidateSchema(s Schema, requireFields bool) []error {
	var errs []error
	if requireFields && len(s) == 0 {
		errs = append(errs, ErrEmptySchema)
	}
	for i, field := range s {
		if err := Validate(field); err != nil {
			errs = append(errs, IndexedError{Index: i, Err: err})
		}
	}
	return errs
}

// ErrEmptySchema is reported when a schema must contain at least one field.
var ErrEmptySchema = errors.New(MessageEmptySchema)

func translate(d FieldDescriptor, fe validator.FieldError) *ValidationError {
	switch fe.Field() {
	case "Name":
		return &ValidationError{Field: "name", Message: MessageNameAndType}
	case "Type":
		if fe.Tag() == "fieldtype" {
			return &ValidationError{Field: "type", Message: fmt.Sprintf("Unknown field type %q.", string(d.Type))}
		}
		return &ValidationError{Field: "type", Message: MessageNameAndType}
	case "Options":
		switch fe.Tag() {
		case "options_forbidden":
			return &ValidationError{Field: "options", Message: MessageOptionsNotAllow}
		case "blank_option":
			return &ValidationError{Field: "options", Message: MessageBlankOption}
		default:
			return &ValidationError{Field: "options", Message: MessageOptionsRequired}
		}
	default:
		return &ValidationError{Field: strings.ToLower(fe.Field()), Message: fe.Error()}
	}
}
