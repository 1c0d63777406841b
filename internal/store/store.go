// Package store persists named field schemas for the HTTP host.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

// ErrNotFound is returned when no form has the requested id.
var ErrNotFound = errors.New("store: form not found")

// Form is one saved schema.
type Form struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Schema    fieldschema.Schema `json:"schema"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store reads and writes forms.
type Store interface {
	Get(ctx context.Context, id string) (Form, error)
	Put(ctx context.Context, form Form) (Form, error)
	List(ctx context.Context) ([]Form, error)
	// Delete removes a form. A missing id is ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

// InvalidFormError lists why a form was rejected. Messages are user facing.
type InvalidFormError struct {
	Messages []string
}

func (e *InvalidFormError) Error() string {
	return "store: invalid form: " + strings.Join(e.Messages, "; ")
}

// prepare validates form, assigns an id when missing and stamps UpdatedAt.
// A form must carry at least one field.
func prepare(form Form, now time.Time) (Form, error) {
	form.ID = strings.TrimSpace(form.ID)
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		form.Title = "Untitled form"
	}

	var messages []string
	for _, err := range fieldschema.ValidateSchema(form.Schema, true) {
		var verr *fieldschema.ValidationError
		switch {
		case errors.Is(err, fieldschema.ErrEmptySchema):
			messages = append(messages, fieldschema.MessageEmptySchema)
		case errors.As(err, &verr):
			var indexed fieldschema.IndexedError
			if errors.As(err, &indexed) {
				messages = append(messages, fmt.Sprintf("Field %d: %s", indexed.Index+1, verr.Message))
			} else {
				messages = append(messages, verr.Message)
			}
		default:
			messages = append(messages, err.Error())
		}
	}
	if len(messages) > 0 {
		return Form{}, &InvalidFormError{Messages: messages}
	}

	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	form.Schema = form.Schema.Clone()
	form.UpdatedAt = now.UTC()
	return form, nil
}
