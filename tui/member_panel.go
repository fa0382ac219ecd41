// ABOUTME: Member list panel with a selection cursor and the currently chosen chapter number.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/cohort/appdata"
)

// MemberPanelModel lists members and tracks the selected member and chapter.
type MemberPanelModel struct {
	members  []appdata.Member
	chapters int
	cursor   int
	chapter  int // 1-based
	focused  bool
	width    int
	height   int
}

// NewMemberPanelModel returns an empty panel on chapter 1.
func NewMemberPanelModel() MemberPanelModel {
	return MemberPanelModel{chapter: 1, focused: true}
}

// SetData replaces the member list and chapter count, keeping the cursor and
// chapter in range.
func (m *MemberPanelModel) SetData(d appdata.Data) {
	m.members = d.Members
	m.chapters = len(d.Curriculum)
	if m.cursor >= len(m.members) {
		m.cursor = max(len(m.members)-1, 0)
	}
	m.chapter = clamp(m.chapter, 1, max(m.chapters, 1))
}

// Selected returns the member under the cursor.
func (m MemberPanelModel) Selected() (appdata.Member, bool) {
	if len(m.members) == 0 {
		return appdata.Member{}, false
	}
	return m.members[m.cursor], true
}

// Chapter returns the selected 1-based chapter.
func (m MemberPanelModel) Chapter() int { return m.chapter }

// Chapters returns how many chapters the curriculum has.
func (m MemberPanelModel) Chapters() int { return m.chapters }

func (m *MemberPanelModel) MoveUp()   { m.cursor = clamp(m.cursor-1, 0, max(len(m.members)-1, 0)) }
func (m *MemberPanelModel) MoveDown() { m.cursor = clamp(m.cursor+1, 0, max(len(m.members)-1, 0)) }

func (m *MemberPanelModel) PrevChapter() { m.chapter = clamp(m.chapter-1, 1, max(m.chapters, 1)) }
func (m *MemberPanelModel) NextChapter() { m.chapter = clamp(m.chapter+1, 1, max(m.chapters, 1)) }

func (m *MemberPanelModel) SetFocused(focused bool) { m.focused = focused }

// SetSize sets the outer dimensions, border included.
func (m *MemberPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// View renders the panel.
func (m MemberPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Members"))
	b.WriteString("\n")

	if len(m.members) == 0 {
		b.WriteString(MutedStyle.Render("no members"))
	}
	for i, mem := range m.members {
		line := fmt.Sprintf("%-2s %s", mem.Icon, mem.Name)
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.chapters > 0 {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(fmt.Sprintf("chapter %d/%d  ←/→", m.chapter, m.chapters)))
	}

	style := borderFor(m.focused)
	if m.width > 2 && m.height > 2 {
		style = style.Width(m.width - 2).Height(m.height - 2)
	}
	return style.Render(b.String())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
