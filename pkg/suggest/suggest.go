// Package suggest proposes field descriptors from a natural language form
// description using a generative model.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("suggest: empty model response")

// Generator returns raw JSON text for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithLogger sets the logger used for dropped descriptors.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Suggester) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Suggester turns descriptions into validated schemas.
type Suggester struct {
	generator Generator
	logger    logrus.FieldLogger
}

// New wraps generator.
func New(generator Generator, opts ...Option) *Suggester {
	s := &Suggester{generator: generator}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		s.logger = logger
	}
	return s
}

// Suggest asks the model for fields matching description. Each proposal goes
// through the same normalisation as user input; proposals that still fail
// validation are dropped and logged. An unusable response is an error.
func (s *Suggester) Suggest(ctx context.Context, description string) (fieldschema.Schema, error) {
	if s == nil || s.generator == nil {
		return nil, errors.New("suggest: generator required")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("suggest: description required")
	}

	raw, err := s.generator.GenerateJSON(ctx, Prompt(description))
	if err != nil {
		return nil, fmt.Errorf("suggest: generate: %w", err)
	}
	raw = stripFence(raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	decoded, err := fieldschema.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("suggest: model returned malformed JSON: %w", err)
	}
	schema := make(fieldschema.Schema, 0, len(decoded))
	for i, candidate := range decoded {
		descriptor := fieldschema.Normalize(candidate)
		if !descriptor.Type.RequiresOptions() {
			descriptor.Options = nil
		}
		if err := fieldschema.Validate(descriptor); err != nil {
			s.logger.WithError(err).WithField("index", i).Warn("suggest: dropped descriptor")
			continue
		}
		schema = append(schema, descriptor)
	}
	return schema, nil
}

// Prompt builds the instruction sent to the model.
func Prompt(description string) string {
	known := fieldschema.KnownTypes()
	tags := make([]string, len(known))
	var choice []string
	for i, ft := range known {
		tags[i] = ft.String()
		if ft.RequiresOptions() {
			choice = append(choice, "'"+ft.String()+"'")
		}
	}

	var b strings.Builder
	b.WriteString("You generate JSON for a form-building application.\n")
	b.WriteString("Based on the user's request, generate a JSON array of field objects.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Output only the raw JSON array, with no explanations or markdown.\n")
	b.WriteString("2. Each object must have a \"name\" and a \"type\".\n")
	b.WriteString("3. The \"name\" is a human-readable label such as \"Full Name\".\n")
	fmt.Fprintf(&b, "4. The \"type\" must be one of: %s.\n", strings.Join(tags, ", "))
	fmt.Fprintf(&b, "5. For %s include an \"options\" array of strings; omit \"options\" for every other type.\n", strings.Join(choice, ", "))
	b.WriteString("6. TEXTAREA is for long text, VARCHAR(255) for short text, EMAIL for emails, DATE for dates.\n\n")
	fmt.Fprintf(&b, "Request:\n%q\n", description)
	return b.String()
}

func stripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
