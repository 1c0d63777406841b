package fieldbuilder

import (
	"io/fs"

	"github.com/goliatone/go-fieldbuilder/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML builder templates so callers
// can copy or override them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
