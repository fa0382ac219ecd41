// ABOUTME: Scrollable chapter panel using the bubbles viewport component.
// ABOUTME: Shows a loading line until the requested chapter arrives and drops stale results.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ChapterPanelModel displays one rendered chapter.
type ChapterPanelModel struct {
	viewport viewport.Model
	member   string
	chapter  int
	loading  bool
	err      error
	focused  bool
	width    int
	height   int
}

// NewChapterPanelModel creates an empty chapter panel.
func NewChapterPanelModel() ChapterPanelModel {
	return ChapterPanelModel{viewport: viewport.New(80, 10)}
}

// Request marks the panel as waiting for member's chapter.
func (m *ChapterPanelModel) Request(member string, chapter int) {
	m.member = member
	m.chapter = chapter
	m.loading = true
	m.err = nil
	m.viewport.SetContent("")
}

// SetContent applies a loaded chapter. Results for anything other than the
// latest request are ignored and false is returned.
func (m *ChapterPanelModel) SetContent(msg ChapterLoadedMsg) bool {
	if msg.Member != m.member || msg.Chapter != m.chapter {
		return false
	}
	m.loading = false
	m.err = msg.Err
	m.viewport.SetContent(msg.Body)
	m.viewport.GotoTop()
	return true
}

// Loading reports whether a request is outstanding.
func (m ChapterPanelModel) Loading() bool { return m.loading }

func (m *ChapterPanelModel) SetFocused(focused bool) { m.focused = focused }

// SetSize sets the outer dimensions. The viewport gets the area inside the
// border minus one title line.
func (m *ChapterPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
}

// ContentWidth is the width chapters should be wrapped at.
func (m ChapterPanelModel) ContentWidth() int {
	return max(m.viewport.Width-2, 20)
}

// Update forwards scroll keys to the viewport while focused.
func (m ChapterPanelModel) Update(msg tea.Msg) (ChapterPanelModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m ChapterPanelModel) View() string {
	var title, body string
	switch {
	case m.member == "":
		title = "Chapter"
		body = MutedStyle.Render("select a member and press enter")
	case m.loading:
		title = fmt.Sprintf("%s · chapter %d", m.member, m.chapter)
		body = MutedStyle.Render("loading…")
	case m.err != nil:
		title = fmt.Sprintf("%s · chapter %d", m.member, m.chapter)
		body = ErrorStyle.Render(m.err.Error())
	default:
		title = fmt.Sprintf("%s · chapter %d", m.member, m.chapter)
		body = m.viewport.View()
	}

	style := borderFor(m.focused)
	if m.width > 2 && m.height > 2 {
		style = style.Width(m.width - 2).Height(m.height - 2)
	}
	return style.Render(TitleStyle.Render(title) + "\n" + body)
}
