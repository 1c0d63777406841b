package html

import "github.com/goliatone/go-fieldbuilder/pkg/editor"

// Pane is an editor.RowsView that renders rows to an HTML fragment. Hosts
// call Remove with the index posted by a row's remove button.
type Pane struct {
	renderer *Renderer
	html     string
	view     editor.View
	handlers []func(int)
}

var _ editor.RowsView = (*Pane)(nil)

// NewPane binds a pane to renderer.
func NewPane(renderer *Renderer) *Pane {
	return &Pane{renderer: renderer}
}

func (p *Pane) Show(view editor.View) error {
	out, err := p.renderer.Rows(view)
	if err != nil {
		return err
	}
	p.view = view
	p.html = out
	return nil
}

func (p *Pane) OnRemove(handler func(int)) {
	if handler != nil {
		p.handlers = append(p.handlers, handler)
	}
}

// Remove fires the removal handlers.
func (p *Pane) Remove(index int) {
	for _, handler := range p.handlers {
		handler(index)
	}
}

// HTML returns the fragment from the last successful Show.
func (p *Pane) HTML() string {
	return p.html
}

// View returns the last shown view.
func (p *Pane) View() editor.View {
	return p.view
}
