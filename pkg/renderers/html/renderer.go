package html

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
	"github.com/goliatone/go-fieldbuilder/pkg/render/template"
	"github.com/goliatone/go-fieldbuilder/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Form input names shared by the page template and the HTTP host.
const (
	InputTitle   = "form_title"
	InputStore   = "fields_json"
	InputName    = "field_name"
	InputType    = "field_type"
	InputOptions = "field_options"
	InputAction  = "action"
	InputRemove  = "remove"
)

// TemplatesFS exposes the embedded templates so callers can copy and
// override them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// Option customises the renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine.
func WithTemplateRenderer(tr template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if tr != nil {
			r.templates = tr
		}
	}
}

// WithTheme resolves tokens from selector for every page render.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(r *Renderer) {
		r.themeSelector = selector
		r.themeName = strings.TrimSpace(name)
		r.themeVariant = strings.TrimSpace(variant)
	}
}

// WithLogger sets the logger used for theme resolution failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer turns editor views and builder pages into HTML.
type Renderer struct {
	templates     template.TemplateRenderer
	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string
	logger        logrus.FieldLogger
}

// New builds a Renderer backed by the embedded pongo2 templates unless
// WithTemplateRenderer is supplied.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		r.logger = logger
	}
	if r.templates == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("html: templates: %w", err)
		}
		engine, err := pongo.New(pongo.WithFS(sub))
		if err != nil {
			return nil, fmt.Errorf("html: template engine: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

// Rows renders the row list fragment for view.
func (r *Renderer) Rows(view editor.View) (string, error) {
	if r == nil || r.templates == nil {
		return "", errors.New("html: renderer not initialised")
	}
	out, err := r.templates.RenderTemplate("rows", map[string]any{"view": view})
	if err != nil {
		return "", fmt.Errorf("html: render rows: %w", err)
	}
	return out, nil
}

// HiddenField is an extra hidden input carried by the page form.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Page is the data for a full builder page.
type Page struct {
	Title     string
	Intro     string
	Action    string
	FormTitle string

	Serialized string
	RowsHTML   string

	Name           string
	Type           string
	Options        string
	OptionsVisible bool

	Notices []string
	Hidden  map[string]string

	// DeleteAction, when set, adds a delete button posting to it.
	DeleteAction string
}

type pageContext struct {
	Title          string        `json:"title"`
	Intro          string        `json:"intro,omitempty"`
	Action         string        `json:"action"`
	FormTitle      string        `json:"form_title"`
	StoreName      string        `json:"store_name"`
	Serialized     string        `json:"serialized"`
	Rows           string        `json:"rows"`
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	Options        string        `json:"options"`
	OptionsVisible bool          `json:"options_visible"`
	Notices        []string      `json:"notices,omitempty"`
	Hidden         []HiddenField `json:"hidden,omitempty"`
	DeleteAction   string        `json:"delete_action,omitempty"`
}

type typeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type themeContext struct {
	Name    string `json:"name,omitempty"`
	Variant string `json:"variant,omitempty"`
	CSSVars string `json:"css_vars,omitempty"`
}

// Page renders a complete builder page.
func (r *Renderer) Page(page Page) (string, error) {
	if r == nil || r.templates == nil {
		return "", errors.New("html: renderer not initialised")
	}
	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = "Form fields"
	}
	ctx := pageContext{
		Title:          title,
		Intro:          sanitizeIntro(page.Intro),
		Action:         page.Action,
		FormTitle:      page.FormTitle,
		StoreName:      InputStore,
		Serialized:     page.Serialized,
		Rows:           page.RowsHTML,
		Name:           page.Name,
		Type:           page.Type,
		Options:        page.Options,
		OptionsVisible: page.OptionsVisible,
		Notices:        page.Notices,
		Hidden:         sortedHidden(page.Hidden),
		DeleteAction:   page.DeleteAction,
	}
	out, err := r.templates.RenderTemplate("page", map[string]any{
		"page":  ctx,
		"types": typeOptions(),
		"theme": r.resolveTheme(),
	})
	if err != nil {
		return "", fmt.Errorf("html: render page: %w", err)
	}
	return out, nil
}

func (r *Renderer) resolveTheme() themeContext {
	if r.themeSelector == nil {
		return themeContext{}
	}
	selection, err := r.themeSelector.Select(r.themeName, r.themeVariant)
	if err != nil || selection == nil {
		r.logger.WithError(err).WithField("theme", r.themeName).Warn("html: theme selection failed")
		return themeContext{}
	}
	return themeContext{
		Name:    selection.Theme,
		Variant: selection.Variant,
		CSSVars: cssVars(themeTokens(selection)),
	}
}

func themeTokens(selection *theme.Selection) map[string]string {
	tokens := map[string]string{}
	if selection.Manifest == nil {
		return tokens
	}
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return tokens
}

func cssVars(tokens map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		parts = append(parts, name+": "+strings.TrimSpace(tokens[key])+";")
	}
	return strings.Join(parts, " ")
}

func typeOptions() []typeOption {
	known := fieldschema.KnownTypes()
	out := make([]typeOption, len(known))
	for i, ft := range known {
		out[i] = typeOption{Value: ft.String(), Label: ft.Label()}
	}
	return out
}

func sortedHidden(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		name = strings.TrimSpace(name)
		if name == "" || name == InputStore {
			continue
		}
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var (
	introPolicyOnce sync.Once
	introPolicy     *bluemonday.Policy
)

// sanitizeIntro keeps basic formatting in operator supplied intro text.
func sanitizeIntro(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	introPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("p", "br", "strong", "em", "code", "ul", "ol", "li")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		introPolicy = policy
	})
	return strings.TrimSpace(introPolicy.Sanitize(trimmed))
}
