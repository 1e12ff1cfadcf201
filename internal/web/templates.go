// internal/web/templates.go
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames are the content templates, each paired with the shared layout.
var pageNames = []string{
	"index.html",
	"buy.html",
	"sell.html",
	"quote.html",
	"quoted.html",
	"history.html",
	"login.html",
	"register.html",
	"addcash.html",
	"apology.html",
}

var templateFuncs = template.FuncMap{
	// usd renders a decimal amount as dollars with two fixed places.
	"usd": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all embedded templates. It fails fast on a broken
// template rather than at first render.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status code. The template is
// executed into a buffer first so a mid-render failure never emits a torn page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
