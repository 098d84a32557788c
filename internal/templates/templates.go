package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses the embedded page templates
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "*.html")
}
