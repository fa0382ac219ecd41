// ABOUTME: Top-level Bubble Tea AppModel composing the member list, chapter view, and status bar.
// ABOUTME: Implements tea.Model (Init, Update, View) and routes keys by focus.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/cohort/appdata"
)

// FocusTarget indicates which panel currently has keyboard focus.
type FocusTarget int

const (
	FocusMembers FocusTarget = iota
	FocusChapter
)

// AppModel is the top-level model of the cohort browser.
type AppModel struct {
	members   MemberPanelModel
	chapter   ChapterPanelModel
	statusBar StatusBarModel

	store  *appdata.Store
	render ChapterFunc
	ctx    context.Context
	focus  FocusTarget
	width  int
	height int
}

// NewAppModel creates an AppModel that loads from store and renders chapters
// with render.
func NewAppModel(ctx context.Context, store *appdata.Store, render ChapterFunc) AppModel {
	return AppModel{
		members:   NewMemberPanelModel(),
		chapter:   NewChapterPanelModel(),
		statusBar: NewStatusBarModel(),
		store:     store,
		render:    render,
		ctx:       ctx,
		focus:     FocusMembers,
	}
}

// Init implements tea.Model by starting the data load.
func (m AppModel) Init() tea.Cmd {
	return LoadDataCmd(m.ctx, m.store)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case DataLoadedMsg:
		return m.handleDataLoaded(msg)

	case ChapterLoadedMsg:
		m.chapter.SetContent(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 10 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x10.", m.width, m.height)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.members.View(), m.chapter.View())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View())
}

func (m AppModel) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	const statusBarHeight = 1
	listWidth := max(m.width*30/100, 20)
	panelHeight := max(m.height-statusBarHeight, 3)

	m.members.SetSize(listWidth, panelHeight)
	m.chapter.SetSize(m.width-listWidth, panelHeight)
	m.statusBar.SetWidth(m.width)
	return m, nil
}

// handleDataLoaded fills the member list and opens the first member's chapter.
func (m AppModel) handleDataLoaded(msg DataLoadedMsg) (tea.Model, tea.Cmd) {
	m.members.SetData(msg.Data)
	m.statusBar.SetLoaded(msg)
	return m, m.open()
}

// open requests the selected member's selected chapter.
func (m *AppModel) open() tea.Cmd {
	member, ok := m.members.Selected()
	if !ok || m.members.Chapters() == 0 {
		return nil
	}
	m.chapter.Request(member.Name, m.members.Chapter())
	return LoadChapterCmd(m.ctx, m.render, member.Name, m.members.Chapter(), m.chapter.ContentWidth())
}

func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.setFocus(m.nextFocus())
		return m, nil
	}

	if m.focus == FocusChapter {
		if msg.String() == "esc" {
			m.setFocus(FocusMembers)
			return m, nil
		}
		var cmd tea.Cmd
		m.chapter, cmd = m.chapter.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		m.members.MoveUp()
	case "down", "j":
		m.members.MoveDown()
	case "left", "h":
		m.members.PrevChapter()
	case "right", "l":
		m.members.NextChapter()
	case "enter":
		cmd := m.open()
		if cmd != nil {
			m.setFocus(FocusChapter)
		}
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) setFocus(f FocusTarget) {
	m.focus = f
	m.members.SetFocused(f == FocusMembers)
	m.chapter.SetFocused(f == FocusChapter)
}

// nextFocus cycles the focus target between the member list and the chapter.
func (m AppModel) nextFocus() FocusTarget {
	if m.focus == FocusMembers {
		return FocusChapter
	}
	return FocusMembers
}
