package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
)

const pageTemplateName = "page.html"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = sync.OnceValues(func() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+pageTemplateName)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageTemplateName, err)
	}

	return tmpl, nil
})

// executePage renders the whole document before touching w, so a template
// failure never leaves a truncated page behind.
func executePage(w io.Writer, data pageData) error {
	tmpl, err := pageTemplate()
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := tmpl.ExecuteTemplate(&buf, pageTemplateName, data); err != nil {
		return fmt.Errorf("execute %s: %w", pageTemplateName, err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write page: %w", err)
	}

	return nil
}

// pageData feeds page.html. Total counts every frame, including the ones
// sampling dropped.
type pageData struct {
	Title       string
	Description string
	DarkClass   string
	AssetsHost  string
	CSS         template.CSS
	Legend      []legendData
	Frames      []frameData
	Total       int
	Sampled     bool
}

type legendData struct {
	Label string
	Style template.CSS
}

type frameData struct {
	Ordinal int
	Title   string
	Chart   template.HTML
}
