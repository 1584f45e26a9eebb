package view

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"puppaka/internal/auth"
)

const layoutFile = "layout.html"

// Flash is a one-off message shown above a form.
type Flash struct {
	Kind string // "success" or "error"
	Text string
}

// Page is the data every template receives.
type Page struct {
	Title  string
	Path   string
	User   *auth.SessionUser
	CSRF   string
	Flash  *Flash
	Errors map[string]string
	Data   any
}

// Renderer renders named pages inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// New parses every page under root in fsys, each together with the layout.
// Page names are their paths relative to root without the extension, e.g. "admin/posts".
func New(fsys fs.FS, root string) (*Renderer, error) {
	layout, err := fs.ReadFile(fsys, path.Join(root, layoutFile))
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || path.Base(p) == layoutFile {
			return nil
		}
		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), ".html")
		tmpl, err := template.New(name).Funcs(Funcs()).Parse(string(layout))
		if err != nil {
			return fmt.Errorf("parse layout for %s: %w", name, err)
		}
		if _, err := tmpl.Parse(string(body)); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Has reports whether a page with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"add": func(a, b int) int { return a + b },
		"year": func() int { return time.Now().Year() },
		"active": func(current, prefix string) bool {
			if prefix == "/" {
				return current == "/"
			}
			return strings.HasPrefix(current, prefix)
		},
	}
}
