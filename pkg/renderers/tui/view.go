package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
)

// FormatView renders a view as plain text, one numbered line per row.
func FormatView(view editor.View) string {
	if view.Empty {
		return view.Placeholder
	}
	var b strings.Builder
	for i, row := range view.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s (%s)", row.Index+1, row.Name, row.TypeLabel)
		if row.HasOptions {
			b.WriteString(": ")
			b.WriteString(row.OptionsText)
		}
	}
	return b.String()
}

// textRows is the terminal RowsView: each render prints the list.
type textRows struct {
	ctx      context.Context
	driver   PromptDriver
	prefix   string
	view     editor.View
	handlers []func(int)
}

func (t *textRows) Show(view editor.View) error {
	t.view = view
	return t.driver.Info(t.ctx, t.prefix+FormatView(view))
}

func (t *textRows) OnRemove(handler func(int)) {
	if handler != nil {
		t.handlers = append(t.handlers, handler)
	}
}

func (t *textRows) remove(index int) {
	for _, handler := range t.handlers {
		handler(index)
	}
}

// promptNotifier reports validation messages through the driver.
type promptNotifier struct {
	ctx    context.Context
	driver PromptDriver
	prefix string
}

func (n promptNotifier) Notify(message string) {
	_ = n.driver.Info(n.ctx, n.prefix+message)
}
