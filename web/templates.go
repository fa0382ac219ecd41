// ABOUTME: TemplateEngine loads embedded HTML templates and renders them with Go's html/template.
// ABOUTME: Templates are embedded at compile time via go:embed for zero runtime path issues.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/2389-research/cohort/appdata"
	"github.com/2389-research/cohort/curriculum"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to templates for rendering.
type PageData struct {
	Title string
	Ready bool

	// home
	Members  []appdata.Member
	Chapters []ChapterSummary

	// chapter
	Member     string
	MemberIcon string
	Chapter    int
	Items      []ChapterItem
}

// ChapterSummary is one curriculum chapter as listed on the home page.
type ChapterSummary struct {
	Index int
	Parts []curriculum.Part
}

// ChapterItem is one rendered part on a chapter page.
type ChapterItem struct {
	Title  string
	Icon   string
	HTML   template.HTML
	Failed bool
}

func chapterSummaries(chapters []curriculum.Chapter) []ChapterSummary {
	out := make([]ChapterSummary, len(chapters))
	for i, ch := range chapters {
		out[i] = ChapterSummary{Index: i + 1, Parts: ch}
	}
	return out
}

// TemplateEngine loads and renders embedded HTML templates.
type TemplateEngine struct {
	templates map[string]*template.Template
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"chapterURL": func(name string, idx int) string {
			return fmt.Sprintf("/%s/chapter/%d", url.PathEscape(name), idx)
		},
	}
}

// NewTemplateEngine parses all embedded templates. Each page template is
// parsed together with the layout so that the layout wraps every page.
func NewTemplateEngine() (*TemplateEngine, error) {
	funcs := templateFuncs()
	pages := []string{
		"home.html",
		"chapter.html",
	}

	engine := &TemplateEngine{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}
	return engine, nil
}

// Render executes the named template with the given data and writes the result
// to w. It sets the Content-Type header to text/html.
func (e *TemplateEngine) Render(w http.ResponseWriter, name string, data any) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, "layout.html", data)
}

// RenderTo executes the named template with the given data and writes the
// result to an arbitrary io.Writer (useful for testing without HTTP).
func (e *TemplateEngine) RenderTo(w io.Writer, name string, data any) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	return t.ExecuteTemplate(w, "layout.html", data)
}
