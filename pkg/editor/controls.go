package editor

import "reflect"

// Input is a text-bearing control: the name entry, the options entry and the
// hidden serialized store all satisfy it.
type Input interface {
	Value() string
	SetValue(value string)
}

// Select is the type selector. OnChange handlers receive the newly selected
// value.
type Select interface {
	Input
	OnChange(handler func(value string))
}

// Panel is a container whose visibility the editor toggles.
type Panel interface {
	SetVisible(visible bool)
}

// Trigger is the add-action control.
type Trigger interface {
	OnActivate(handler func())
}

// RowsView receives the rendered view. Removal controls report the positional
// index they were rendered with.
type RowsView interface {
	Show(view View) error
	OnRemove(handler func(index int))
}

// Notifier surfaces validation messages to the end user.
type Notifier interface {
	Notify(message string)
}

// Controls bundles the handles the editor binds to. Every field except
// Notifier is required.
type Controls struct {
	// Store holds the serialized schema shared with the host. Its value is read
	// once at construction; afterwards the editor only writes it.
	Store        Input
	Rows         RowsView
	Name         Input
	Type         Select
	OptionsPanel Panel
	Options      Input
	Add          Trigger
	Notifier     Notifier
}

// Handle names reported by MissingControlError.
const (
	HandleStore        = "store"
	HandleRows         = "rows"
	HandleName         = "name"
	HandleType         = "type"
	HandleOptionsPanel = "options-panel"
	HandleOptions      = "options"
	HandleAdd          = "add"
)

func (c Controls) missing() string {
	checks := []struct {
		handle string
		value  any
	}{
		{HandleStore, c.Store},
		{HandleRows, c.Rows},
		{HandleName, c.Name},
		{HandleType, c.Type},
		{HandleOptionsPanel, c.OptionsPanel},
		{HandleOptions, c.Options},
		{HandleAdd, c.Add},
	}
	for _, check := range checks {
		if isNil(check.value) {
			return check.handle
		}
	}
	return ""
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
