package editor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

// Editor owns the in-memory schema and keeps the serialized store in step
// with it. Every mutation runs validate, mutate, render, serialize to
// completion; the editor is not safe for concurrent use and does not need to
// be, since hosts dispatch events one at a time.
type Editor struct {
	controls Controls
	schema   fieldschema.Schema
	logger   logrus.FieldLogger
	notifier Notifier
}

// New binds an editor to its controls. A missing control aborts construction
// with a *MissingControlError and nothing is bound. The initial schema is
// read from controls.Store; blank or malformed values start an empty schema.
// The first render runs before New returns, so a malformed store value is
// normalised immediately.
func New(controls Controls, opts ...Option) (*Editor, error) {
	e := &Editor{
		controls: controls,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}

	if handle := controls.missing(); handle != "" {
		e.logger.WithField("handle", handle).Error("editor: required control missing, editor not attached")
		return nil, &MissingControlError{Handle: handle}
	}

	if e.notifier == nil {
		if controls.Notifier != nil {
			e.notifier = controls.Notifier
		} else {
			e.notifier = logNotifier{logger: e.logger}
		}
	}

	e.schema = e.loadInitial(controls.Store.Value())

	controls.Type.OnChange(e.handleTypeChange)
	controls.Add.OnActivate(e.handleAdd)
	controls.Rows.OnRemove(e.handleRemove)

	e.ShowOptionsFor(controls.Type.Value())
	if err := e.Render(); err != nil {
		e.logger.WithError(err).Warn("editor: initial render failed")
	}
	return e, nil
}

func (e *Editor) loadInitial(raw string) fieldschema.Schema {
	schema, dropped, err := fieldschema.DecodeValid(raw)
	if err != nil {
		e.logger.WithError(err).Warn("editor: could not parse initial schema, starting empty")
		return fieldschema.Schema{}
	}
	for _, drop := range dropped {
		e.logger.WithError(drop).Warn("editor: dropped invalid field from initial schema")
	}
	return schema
}

// Schema returns a copy of the current schema.
func (e *Editor) Schema() fieldschema.Schema {
	return e.schema.Clone()
}

// Len reports the number of fields.
func (e *Editor) Len() int {
	return len(e.schema)
}

// Serialized returns the current store value.
func (e *Editor) Serialized() string {
	return e.controls.Store.Value()
}

// AddField validates the input and appends a descriptor. Validation failures
// are sent to the notifier, returned as *fieldschema.ValidationError, and
// leave the schema untouched. On success the input controls are cleared and
// the view and store are refreshed.
func (e *Editor) AddField(name, fieldType, rawOptions string) error {
	descriptor, err := fieldschema.NewDescriptor(name, fieldType, rawOptions)
	if err != nil {
		e.reject(err)
		return err
	}

	e.schema = append(e.schema, descriptor)

	e.controls.Name.SetValue("")
	e.controls.Type.SetValue("")
	e.controls.Options.SetValue("")
	e.controls.OptionsPanel.SetVisible(false)

	return e.Render()
}

// AppendDescriptor appends an already structured descriptor, such as one
// produced by a suggestion source. It applies the same cleanup and validation
// as AddField, without splitting options, and leaves the input controls alone.
func (e *Editor) AppendDescriptor(descriptor fieldschema.FieldDescriptor) error {
	descriptor = fieldschema.Normalize(descriptor)
	if err := fieldschema.Validate(descriptor); err != nil {
		e.reject(err)
		return err
	}
	e.schema = append(e.schema, descriptor)
	return e.Render()
}

func (e *Editor) reject(err error) {
	var verr *fieldschema.ValidationError
	if errors.As(err, &verr) {
		e.logger.WithField("field", verr.Field).Debug("editor: rejected field")
		e.notifier.Notify(verr.Message)
		return
	}
	e.logger.WithError(err).Warn("editor: rejected field")
	e.notifier.Notify(err.Error())
}

// RemoveField drops the descriptor at index; later entries shift down. Indexes
// outside the current schema, negative ones included, leave the schema
// unchanged and return ErrIndexOutOfRange. The view and store are refreshed
// either way.
func (e *Editor) RemoveField(index int) error {
	if index < 0 || index >= len(e.schema) {
		e.logger.WithFields(logrus.Fields{
			"index":  index,
			"length": len(e.schema),
		}).Warn("editor: ignoring removal of unknown field position")
		if err := e.Render(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(e.schema))
	}
	e.schema = slices.Delete(e.schema, index, index+1)
	return e.Render()
}

// Render pushes the current view to the rows control and re-derives the
// store. The store is written even when the rows control fails.
func (e *Editor) Render() error {
	showErr := e.controls.Rows.Show(BuildView(e.schema))
	if showErr != nil {
		e.logger.WithError(showErr).Error("editor: rows view failed to render")
	}

	encoded, err := fieldschema.Encode(e.schema)
	if err != nil {
		e.logger.WithError(err).Error("editor: could not encode schema")
		return err
	}
	e.controls.Store.SetValue(encoded)

	if showErr != nil {
		return fmt.Errorf("editor: show rows: %w", showErr)
	}
	return nil
}

// ShowOptionsFor toggles the options panel for the given type value and
// reports the new visibility. It carries no data; AddField re-checks.
func (e *Editor) ShowOptionsFor(fieldType string) bool {
	ft, _ := fieldschema.ParseFieldType(fieldType)
	visible := ft.RequiresOptions()
	e.controls.OptionsPanel.SetVisible(visible)
	return visible
}

func (e *Editor) handleTypeChange(value string) {
	e.ShowOptionsFor(value)
}

func (e *Editor) handleAdd() {
	_ = e.AddField(
		e.controls.Name.Value(),
		e.controls.Type.Value(),
		e.controls.Options.Value(),
	)
}

func (e *Editor) handleRemove(index int) {
	if err := e.RemoveField(index); err != nil && !errors.Is(err, ErrIndexOutOfRange) {
		e.logger.WithError(err).Error("editor: remove failed")
	}
}
