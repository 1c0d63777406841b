package pongo_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-fieldbuilder/pkg/render/template/pongo"
	"github.com/goliatone/go-fieldbuilder/pkg/testsupport"
)

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tpl":      {Data: []byte("Hello {{ name }}")},
		"use-global.tpl": {Data: []byte("env={{ settings.env }}")},
		"use-filter.tpl": {Data: []byte("{{ name|shout_test }}")},
		"count.tpl":      {Data: []byte("{{ count }} rows")},
	}
	engine, err := pongo.New(pongo.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada" {
		t.Fatalf("result mismatch: %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: %q", written)
	}
}

func TestEngine_EscapesByDefault(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("hello.tpl", map[string]any{"name": "<b>Ada</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<b>") {
		t.Fatalf("expected escaped output, got %q", result)
	}
}

func TestEngine_IntegersStayIntegers(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("count", struct {
		Count int `json:"count"`
	}{Count: 3})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "3 rows" {
		t.Fatalf("result mismatch: %q", result)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("result mismatch: %q", result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout_test", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("result mismatch: %q", result)
	}

	if err := engine.RegisterFilter("shout_test", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatal("expected duplicate filter registration to fail")
	}
}

func TestEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderString("{{ a }}-{{ b|trim }}", map[string]any{"a": "x", "b": "  y  "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "x-y" {
		t.Fatalf("result mismatch: %q", result)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatal("expected error without template source")
	}
}
