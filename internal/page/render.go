package page

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// PoemTemplate and ListTemplate are the names of the page templates.
const (
	PoemTemplate = "poem.html"
	ListTemplate = "poems.html"
)

var templates = template.Must(Templates())

// Templates parses the layout, leaf component and page templates.
func Templates() (*template.Template, error) {
	return template.New("pages").ParseFS(templateFS, "templates/*.html")
}

// Render executes a page template into w.
func Render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}

// Template returns the parsed page templates, for use with gin's HTML renderer.
func Template() *template.Template {
	return templates
}
