package editor

// The in-memory controls back the terminal host, the server-rendered host and
// tests. Like DOM controls, setting a value programmatically does not fire
// change handlers; Change and Activate do.

// TextBox is an Input holding a string.
type TextBox struct {
	value string
}

// NewTextBox returns a TextBox seeded with value.
func NewTextBox(value string) *TextBox {
	return &TextBox{value: value}
}

func (t *TextBox) Value() string {
	return t.value
}

func (t *TextBox) SetValue(value string) {
	t.value = value
}

// SelectBox is a Select holding the current choice.
type SelectBox struct {
	value    string
	handlers []func(string)
}

// NewSelectBox returns a SelectBox seeded with value.
func NewSelectBox(value string) *SelectBox {
	return &SelectBox{value: value}
}

func (s *SelectBox) Value() string {
	return s.value
}

func (s *SelectBox) SetValue(value string) {
	s.value = value
}

func (s *SelectBox) OnChange(handler func(string)) {
	if handler != nil {
		s.handlers = append(s.handlers, handler)
	}
}

// Change selects value and fires the change handlers, as a user would.
func (s *SelectBox) Change(value string) {
	s.value = value
	for _, handler := range s.handlers {
		handler(value)
	}
}

// PanelBox records visibility.
type PanelBox struct {
	visible bool
}

func (p *PanelBox) SetVisible(visible bool) {
	p.visible = visible
}

// Visible reports the last visibility set.
func (p *PanelBox) Visible() bool {
	return p.visible
}

// Button is a Trigger fired by Activate.
type Button struct {
	handlers []func()
}

func (b *Button) OnActivate(handler func()) {
	if handler != nil {
		b.handlers = append(b.handlers, handler)
	}
}

// Activate fires the bound handlers.
func (b *Button) Activate() {
	for _, handler := range b.handlers {
		handler()
	}
}

// RowList keeps the last shown view.
type RowList struct {
	view     View
	renders  int
	handlers []func(int)
}

func (r *RowList) Show(view View) error {
	r.view = view
	r.renders++
	return nil
}

func (r *RowList) OnRemove(handler func(int)) {
	if handler != nil {
		r.handlers = append(r.handlers, handler)
	}
}

// Remove fires the removal handlers for a rendered row index.
func (r *RowList) Remove(index int) {
	for _, handler := range r.handlers {
		handler(index)
	}
}

// View returns the last shown view.
func (r *RowList) View() View {
	return r.view
}

// Renders counts Show calls.
func (r *RowList) Renders() int {
	return r.renders
}

// Alerts collects notifier messages.
type Alerts struct {
	messages []string
}

func (a *Alerts) Notify(message string) {
	a.messages = append(a.messages, message)
}

// Messages returns every message received so far.
func (a *Alerts) Messages() []string {
	return append([]string(nil), a.messages...)
}

// Last returns the most recent message, or "".
func (a *Alerts) Last() string {
	if len(a.messages) == 0 {
		return ""
	}
	return a.messages[len(a.messages)-1]
}

// Reset drops the collected messages.
func (a *Alerts) Reset() {
	a.messages = nil
}

// Memory is a full set of in-memory controls.
type Memory struct {
	Store        *TextBox
	Rows         *RowList
	Name         *TextBox
	Type         *SelectBox
	OptionsPanel *PanelBox
	Options      *TextBox
	Add          *Button
	Alerts       *Alerts
}

// NewMemory builds in-memory controls with the store seeded from initial.
func NewMemory(initial string) *Memory {
	return &Memory{
		Store:        NewTextBox(initial),
		Rows:         &RowList{},
		Name:         NewTextBox(""),
		Type:         NewSelectBox(""),
		OptionsPanel: &PanelBox{},
		Options:      NewTextBox(""),
		Add:          &Button{},
		Alerts:       &Alerts{},
	}
}

// Controls exposes the memory controls as editor handles.
func (m *Memory) Controls() Controls {
	return Controls{
		Store:        m.Store,
		Rows:         m.Rows,
		Name:         m.Name,
		Type:         m.Type,
		OptionsPanel: m.OptionsPanel,
		Options:      m.Options,
		Add:          m.Add,
		Notifier:     m.Alerts,
	}
}

// Fill sets the add-form inputs and fires the type change, mirroring a user
// typing a name, choosing a type and entering options.
func (m *Memory) Fill(name, fieldType, options string) {
	m.Name.SetValue(name)
	m.Type.Change(fieldType)
	m.Options.SetValue(options)
}
