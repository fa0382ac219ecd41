// ABOUTME: Tests for the embedded template engine: page parsing, layout wrapping, and URL building.
package web

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/2389-research/cohort/appdata"
	"github.com/2389-research/cohort/curriculum"
)

func TestNewTemplateEngineParsesAllPages(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, page := range []string{"home.html", "chapter.html"} {
		if _, ok := engine.templates[page]; !ok {
			t.Errorf("expected template %q to be loaded", page)
		}
	}
}

func TestRenderToUnknownTemplate(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := engine.RenderTo(&buf, "missing.html", PageData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestHomeTemplate(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := PageData{
		Title:   "Cohort",
		Ready:   true,
		Members: []appdata.Member{{Name: "alice", Icon: "🦊"}, {Name: "two words"}},
		Chapters: chapterSummaries([]curriculum.Chapter{
			{{Title: "Intro", Icon: "📘"}},
		}),
	}
	var buf bytes.Buffer
	if err := engine.RenderTo(&buf, "home.html", data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := buf.String()
	for _, want := range []string{
		"<title>Cohort</title>",
		`href="/static/css/site.css"`,
		`href="/alice/chapter/1"`,
		`href="/two%20words/chapter/1"`,
		"📘 Intro",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestHomeTemplateEmpty(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := engine.RenderTo(&buf, "home.html", PageData{Ready: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No members yet.") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

func TestChapterTemplateEscapesTitleButNotBody(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := PageData{
		Title:   "alice",
		Member:  "alice",
		Chapter: 1,
		Items: []ChapterItem{
			{Title: "<b>Intro</b>", Icon: "📘", HTML: template.HTML("<p>ok</p>")},
			{Title: "Setup", HTML: template.HTML("<p>failed</p>"), Failed: true},
		},
	}
	var buf bytes.Buffer
	if err := engine.RenderTo(&buf, "chapter.html", data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, "&lt;b&gt;Intro&lt;/b&gt;") {
		t.Error("expected part title to be escaped")
	}
	if !strings.Contains(body, "<p>ok</p>") {
		t.Error("expected rendered HTML to pass through")
	}
	if !strings.Contains(body, "part-failed") {
		t.Error("expected failed part marker")
	}
}

func TestChapterTemplateNoParts(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := engine.RenderTo(&buf, "chapter.html", PageData{Chapter: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "no parts") {
		t.Errorf("expected empty chapter notice, got %q", buf.String())
	}
}
