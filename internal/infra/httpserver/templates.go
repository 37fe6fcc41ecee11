package httpserver

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
)

// Renderer holds the parsed page templates and the pre-rendered marketing
// article. Parsing happens once at startup.
type Renderer struct {
	home      *template.Template
	analysis  *template.Template
	portfolio *template.Template

	// Article is the landing-page editorial content, authored in Markdown
	// and converted with goldmark at startup.
	Article template.HTML
}

var funcs = template.FuncMap{
	"display": analysis.OrPlaceholder,
}

func NewRenderer(assets fs.FS) (*Renderer, error) {
	parse := func(page string) (*template.Template, error) {
		return template.New("layout.html").Funcs(funcs).ParseFS(assets,
			"templates/layout.html", "templates/"+page)
	}

	home, err := parse("home.html")
	if err != nil {
		return nil, fmt.Errorf("parse home: %w", err)
	}
	results, err := parse("analysis.html")
	if err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	portfolio, err := parse("portfolio.html")
	if err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}

	article, err := renderArticle(assets)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		home:      home,
		analysis:  results,
		portfolio: portfolio,
		Article:   article,
	}, nil
}

func renderArticle(assets fs.FS) (template.HTML, error) {
	src, err := fs.ReadFile(assets, "content/landing.md")
	if err != nil {
		return "", fmt.Errorf("read landing article: %w", err)
	}
	var buf strings.Builder
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render landing article: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) Home(w io.Writer, data any) error {
	return r.home.ExecuteTemplate(w, "layout.html", data)
}

func (r *Renderer) Analysis(w io.Writer, data any) error {
	return r.analysis.ExecuteTemplate(w, "layout.html", data)
}

func (r *Renderer) Portfolio(w io.Writer, data any) error {
	return r.portfolio.ExecuteTemplate(w, "layout.html", data)
}
