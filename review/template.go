package review

import (
	"embed"
	"html/template"
	"io"

	"github.com/russross/blackfriday/v2"
)

var (
	//go:embed templates/*
	templateFS embed.FS

	pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
)

// IndexData feeds the single-page reviewer UI.
type IndexData struct {
	Description string
	SliderMin   int
	SliderMax   int
	ZoomFactor  float64
}

// RenderIndex renders the reviewer page.
func RenderIndex(w io.Writer, data IndexData) error {
	return pageTemplates.ExecuteTemplate(w, "index.html", data)
}

// RenderHelp renders the markdown help text inside the page shell.
func RenderHelp(w io.Writer, description string) error {
	md, err := templateFS.ReadFile("templates/help.md")
	if err != nil {
		return err
	}
	return pageTemplates.ExecuteTemplate(w, "help.html", map[string]any{
		"Description": description,
		"Content":     template.HTML(blackfriday.Run(md)),
	})
}
