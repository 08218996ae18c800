// Package views holds the HTML pages served by the registration form.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Load parses every page. Each page is addressed by its file name, e.g. "index.html".
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}
