// Package templates embeds the HTML pages. Every page is a named template
// ("home.html", ...) built from the shared "header" and "footer" blocks.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var FS embed.FS

func Load(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(FS, "*.html")
}
