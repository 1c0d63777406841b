package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

// Menu entries offered on every loop iteration.
const (
	MenuAdd     = "Add field"
	MenuRemove  = "Remove field"
	MenuSuggest = "Suggest fields"
	MenuDone    = "Done"
)

// Suggester proposes descriptors from a free-text description.
type Suggester interface {
	Suggest(ctx context.Context, description string) (fieldschema.Schema, error)
}

// Session edits a schema interactively in the terminal by firing events on
// in-memory controls, the same way a browser host fires DOM events.
type Session struct {
	driver    PromptDriver
	theme     Theme
	logger    logrus.FieldLogger
	suggester Suggester
}

// WithSuggester enables the suggest menu entry.
func WithSuggester(s Suggester) Option {
	return func(session *Session) {
		session.suggester = s
	}
}

// New constructs a Session using survey unless WithPromptDriver is given.
func New(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		s.logger = logger
	}
	return s
}

// Run edits initial until the user picks Done and returns the serialized
// schema.
func (s *Session) Run(ctx context.Context, initial string) (string, error) {
	if s == nil || s.driver == nil {
		return "", ErrNoDriver
	}
	if ctx == nil {
		ctx = context.Background()
	}

	mem := editor.NewMemory(initial)
	rows := &textRows{ctx: ctx, driver: s.driver, prefix: s.theme.InfoPrefix}
	controls := mem.Controls()
	controls.Rows = rows
	controls.Notifier = promptNotifier{ctx: ctx, driver: s.driver, prefix: s.theme.ErrorPrefix}

	ed, err := editor.New(controls, editor.WithLogger(s.logger))
	if err != nil {
		return "", err
	}

	menu := []string{MenuAdd, MenuRemove}
	if s.suggester != nil {
		menu = append(menu, MenuSuggest)
	}
	menu = append(menu, MenuDone)

	for {
		choice, err := s.driver.Select(ctx, SelectConfig{Message: "What next?", Options: menu})
		if err != nil {
			return "", err
		}
		if choice < 0 || choice >= len(menu) {
			continue
		}
		switch menu[choice] {
		case MenuAdd:
			err = s.add(ctx, mem)
		case MenuRemove:
			err = s.remove(ctx, ed, rows)
		case MenuSuggest:
			err = s.suggest(ctx, ed)
		case MenuDone:
			return ed.Serialized(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (s *Session) add(ctx context.Context, mem *editor.Memory) error {
	name, err := s.driver.Input(ctx, InputConfig{Message: "Field name"})
	if err != nil {
		return err
	}

	known := fieldschema.KnownTypes()
	labels := make([]string, len(known))
	for i, ft := range known {
		labels[i] = fmt.Sprintf("%s (%s)", ft.Label(), ft)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Field type", Options: labels, PageSize: len(labels)})
	if err != nil {
		return err
	}
	fieldType := ""
	if idx >= 0 && idx < len(known) {
		fieldType = known[idx].String()
	}

	mem.Name.SetValue(name)
	mem.Type.Change(fieldType)
	if mem.OptionsPanel.Visible() {
		options, err := s.driver.Input(ctx, InputConfig{
			Message: "Options",
			Help:    "Comma-separated, e.g. Red, Green, Blue",
		})
		if err != nil {
			return err
		}
		mem.Options.SetValue(options)
	}
	mem.Add.Activate()
	return nil
}

func (s *Session) remove(ctx context.Context, ed *editor.Editor, rows *textRows) error {
	if ed.Len() == 0 {
		return s.driver.Info(ctx, s.theme.InfoPrefix+editor.Placeholder)
	}
	lines := strings.Split(FormatView(rows.view), "\n")
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Remove which field?", Options: lines})
	if err != nil {
		return err
	}
	confirmed, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Remove it?", Default: true})
	if err != nil {
		return err
	}
	if confirmed {
		rows.remove(idx)
	}
	return nil
}

func (s *Session) suggest(ctx context.Context, ed *editor.Editor) error {
	description, err := s.driver.Input(ctx, InputConfig{Message: "Describe the form"})
	if err != nil {
		return err
	}
	if strings.TrimSpace(description) == "" {
		return nil
	}
	proposed, err := s.suggester.Suggest(ctx, description)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		s.logger.WithError(err).Warn("tui: suggestion failed")
		return s.driver.Info(ctx, s.theme.ErrorPrefix+"Could not generate fields: "+err.Error())
	}
	for _, descriptor := range proposed {
		if err := ed.AppendDescriptor(descriptor); err != nil {
			s.logger.WithError(err).WithField("name", descriptor.Name).Warn("tui: skipped suggested field")
		}
	}
	return nil
}
