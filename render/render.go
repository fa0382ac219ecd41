// ABOUTME: Converts MDX sources to HTML: YAML front matter split off, ESM lines dropped, body rendered by goldmark.
// ABOUTME: Provides ParseDocument, Markdown (GFM + emoji shortcodes), and ToHTML for the web pages.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Document is an MDX source split into front matter and body.
type Document struct {
	FrontMatter map[string]any
	Body        string
}

// Title returns the front matter "title" value, if it is a string.
func (d Document) Title() string {
	if s, ok := d.FrontMatter["title"].(string); ok {
		return s
	}
	return ""
}

// PartTitle is the heading shown for a part: its manifest title, or the
// front matter title of src when the manifest has none.
func PartTitle(manifestTitle, src string) string {
	if manifestTitle != "" {
		return manifestTitle
	}
	return ParseDocument(src).Title()
}

// ParseDocument splits a leading "---" delimited YAML block from src and
// drops top-level MDX import/export lines from the body. Front matter that
// does not parse as YAML is left in the body untouched.
func ParseDocument(src string) Document {
	src = strings.TrimPrefix(src, "\ufeff")
	body := src

	var fm map[string]any
	if head, rest, ok := splitFrontMatter(src); ok {
		if err := yaml.Unmarshal([]byte(head), &fm); err == nil {
			body = rest
		} else {
			fm = nil
		}
	}

	return Document{FrontMatter: fm, Body: stripESM(body)}
}

func splitFrontMatter(src string) (head, rest string, ok bool) {
	first, after, found := strings.Cut(src, "\n")
	if !found || strings.TrimRight(first, "\r") != "---" {
		return "", "", false
	}

	var b strings.Builder
	for {
		line, next, more := strings.Cut(after, "\n")
		if strings.TrimRight(line, "\r") == "---" {
			return b.String(), next, true
		}
		if !more {
			return "", "", false
		}
		b.WriteString(line)
		b.WriteByte('\n')
		after = next
	}
}

// stripESM removes MDX import/export statements outside fenced code blocks.
func stripESM(body string) string {
	lines := strings.Split(body, "\n")
	out := lines[:0]
	fence := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		case strings.HasPrefix(trimmed, "```"):
			fence = "```"
		case strings.HasPrefix(trimmed, "~~~"):
			fence = "~~~"
		case strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export "):
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Markdown renders document bodies to HTML. Raw HTML in the source is not
// passed through.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds a renderer with GitHub-flavored markdown and emoji
// shortcodes enabled.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, emoji.Emoji),
		),
	}
}

// ToHTML parses src as an MDX document and renders its body.
func (m *Markdown) ToHTML(src string) (template.HTML, error) {
	doc := ParseDocument(src)
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(doc.Body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Render adapts ToHTML to RenderFunc so it can sit behind a Cache.
func (m *Markdown) Render(_ context.Context, src string) (template.HTML, error) {
	return m.ToHTML(src)
}
