package router

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/flosch/pongo2/v6"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the embedded pongo2 HTML templates for echo.
type Renderer struct {
	templates map[string]*pongo2.Template
}

// NewRenderer parses every embedded template, keyed by file name.
func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*pongo2.Template, len(names))}
	for _, name := range names {
		raw, err := templateFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		tpl, err := pongo2.FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[path.Base(name)] = tpl
	}
	return r, nil
}

// Render implements echo.Renderer. data may be a map or a pongo2.Context.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var ctx pongo2.Context
	switch d := data.(type) {
	case pongo2.Context:
		ctx = d
	case map[string]interface{}:
		ctx = pongo2.Context(d)
	case nil:
		ctx = pongo2.Context{}
	default:
		return fmt.Errorf("template %q: unsupported data %T", name, data)
	}
	return tpl.ExecuteWriter(ctx, w)
}
