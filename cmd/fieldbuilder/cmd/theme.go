package cmd

import (
	"fmt"

	theme "github.com/goliatone/go-theme"
)

// themeSet selects from manifests compiled into the binary.
type themeSet map[string]*theme.Manifest

func (s themeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func builtinThemes() theme.ThemeSelector {
	return themeSet{
		"default": {
			Name:    "default",
			Version: "1.0.0",
			Tokens: map[string]string{
				"fb-accent":  "#2563eb",
				"fb-surface": "#ffffff",
				"fb-text":    "#111827",
				"fb-radius":  "6px",
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{
					"fb-surface": "#111827",
					"fb-text":    "#f9fafb",
				}},
			},
		},
	}
}
