// ABOUTME: Implements a single-line status bar showing load state, member count, and key hints.
package tui

import (
	"fmt"
	"strings"
)

// StatusBarModel displays browser status in a single line.
type StatusBarModel struct {
	ready    bool
	loadErr  error
	members  int
	chapters int
	width    int
}

// NewStatusBarModel creates a status bar in the loading state.
func NewStatusBarModel() StatusBarModel {
	return StatusBarModel{}
}

// SetLoaded records the outcome of the data load.
func (m *StatusBarModel) SetLoaded(msg DataLoadedMsg) {
	m.ready = true
	m.loadErr = msg.Err
	m.members = len(msg.Data.Members)
	m.chapters = len(msg.Data.Curriculum)
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar.
func (m StatusBarModel) View() string {
	parts := []string{"cohort"}
	switch {
	case !m.ready:
		parts = append(parts, "loading…")
	case m.loadErr != nil:
		parts = append(parts, ErrorStyle.Render("load failed: "+m.loadErr.Error()))
	default:
		parts = append(parts, fmt.Sprintf("%d members", m.members), fmt.Sprintf("%d chapters", m.chapters))
	}
	parts = append(parts, "enter open · tab focus · q quit")

	style := StatusBarStyle
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(strings.Join(parts, " │ "))
}
