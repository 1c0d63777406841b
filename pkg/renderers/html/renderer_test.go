package html_test

import (
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
	"github.com/goliatone/go-fieldbuilder/pkg/renderers/html"
)

func newRenderer(t *testing.T, opts ...html.Option) *html.Renderer {
	t.Helper()
	r, err := html.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderer_RowsPlaceholder(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Rows(editor.BuildView(nil))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if !strings.Contains(out, editor.Placeholder) {
		t.Fatalf("expected placeholder, got %q", out)
	}
	if strings.Contains(out, "<li") {
		t.Fatalf("expected no rows, got %q", out)
	}
}

func TestRenderer_RowsEscapeNames(t *testing.T) {
	r := newRenderer(t)

	view := editor.BuildView(fieldschema.Schema{
		{Name: "<script>x</script>", Type: fieldschema.FieldTypeShortText},
		{Name: "Color", Type: fieldschema.FieldTypeSelect, Options: []string{"Red", "Blue"}},
	})
	out, err := r.Rows(view)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("name was not escaped: %q", out)
	}
	for _, want := range []string{
		`data-index="0"`,
		`name="remove" value="1"`,
		"Single choice",
		"Red, Blue",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, `data-index="0"`) > strings.Index(out, `data-index="1"`) {
		t.Fatalf("rows out of order:\n%s", out)
	}
}

func TestRenderer_Page(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Page(html.Page{
		Title:          "Intake",
		Intro:          `<p>Hello <script>alert(1)</script><strong>there</strong></p>`,
		Action:         "/forms/new",
		Serialized:     `[{"name":"Age","type":"INTEGER"}]`,
		RowsHTML:       `<ol class="fb-rows"></ol>`,
		Type:           "SELECT",
		OptionsVisible: true,
		Notices:        []string{fieldschema.MessageNameAndType},
		Hidden:         map[string]string{"csrf_token": "abc", html.InputStore: "ignored"},
	})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	for _, want := range []string{
		"<title>Intake</title>",
		`action="/forms/new"`,
		`<textarea name="fields_json"`,
		"&quot;Age&quot;",
		`<ol class="fb-rows"></ol>`,
		`<strong>there</strong>`,
		`<option value="SELECT" selected>Single choice</option>`,
		`<option value="VARCHAR(255)">Short text</option>`,
		`name="csrf_token" value="abc"`,
		"Please provide a field name and type.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page:\n%s", want, out)
		}
	}
	if strings.Contains(out, "alert(1)") {
		t.Fatalf("intro script survived sanitising:\n%s", out)
	}
	if strings.Contains(out, `value="ignored"`) {
		t.Fatalf("store must not be duplicated as hidden input:\n%s", out)
	}
	if strings.Contains(out, `class="fb-options-panel" hidden`) {
		t.Fatalf("options panel should be visible:\n%s", out)
	}
}

func TestRenderer_PageHidesOptionsPanel(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Page(html.Page{})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(out, `class="fb-options-panel" hidden`) {
		t.Fatalf("options panel should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "<title>Form fields</title>") {
		t.Fatalf("expected default title:\n%s", out)
	}
	if strings.Contains(out, "fb-delete") {
		t.Fatalf("unsaved forms have no delete button:\n%s", out)
	}
}

func TestRenderer_PageDeleteButton(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Page(html.Page{Action: "/forms/abc", DeleteAction: "/forms/abc/delete"})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(out, `<form method="post" action="/forms/abc/delete" class="fb-delete">`) {
		t.Fatalf("expected delete form:\n%s", out)
	}
}

func TestRenderer_PageTheme(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456", "radius": "4px"},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}}
	r := newRenderer(t, html.WithTheme(selector, "acme", "dark"))

	out, err := r.Page(html.Page{})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(out, ":root { --brand: #654321; --radius: 4px; }") {
		t.Fatalf("expected merged theme tokens:\n%s", out)
	}
	if !strings.Contains(out, `data-theme="acme"`) || !strings.Contains(out, `data-variant="dark"`) {
		t.Fatalf("expected theme attributes:\n%s", out)
	}
	if len(selector.calls) != 1 || selector.calls[0] != "acme/dark" {
		t.Fatalf("unexpected selector calls: %v", selector.calls)
	}
}

func TestRenderer_PageThemeFailureFallsBack(t *testing.T) {
	selector := &stubThemeSelector{err: errors.New("missing")}
	r := newRenderer(t, html.WithTheme(selector, "ghost", ""))

	out, err := r.Page(html.Page{})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if strings.Contains(out, ":root") {
		t.Fatalf("expected no theme vars:\n%s", out)
	}
}

func TestPane_DrivesEditor(t *testing.T) {
	r := newRenderer(t)
	pane := html.NewPane(r)
	mem := editor.NewMemory(`[{"name":"Age","type":"INTEGER"},{"name":"Bio","type":"TEXTAREA"}]`)
	controls := mem.Controls()
	controls.Rows = pane

	ed, err := editor.New(controls)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if !strings.Contains(pane.HTML(), "Age") || !strings.Contains(pane.HTML(), "Bio") {
		t.Fatalf("expected both rows:\n%s", pane.HTML())
	}

	pane.Remove(0)
	if ed.Len() != 1 {
		t.Fatalf("expected one field, got %d", ed.Len())
	}
	if strings.Contains(pane.HTML(), "Age") {
		t.Fatalf("removed row still rendered:\n%s", pane.HTML())
	}
	if got := mem.Store.Value(); got != "[\n  {\n    \"name\": \"Bio\",\n    \"type\": \"TEXTAREA\"\n  }\n]" {
		t.Fatalf("unexpected store %q", got)
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, name+"/"+variant)
	return s.selection, s.err
}
