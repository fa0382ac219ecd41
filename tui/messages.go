// ABOUTME: Bubble Tea message types and commands for the cohort browser.
// ABOUTME: Data and chapter loads run as tea.Cmds and report back as messages.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/cohort/appdata"
)

// DataLoadedMsg carries the store snapshot once loading settles.
type DataLoadedMsg struct {
	Data appdata.Data
	Err  error
}

// ChapterLoadedMsg carries one rendered chapter.
type ChapterLoadedMsg struct {
	Member  string
	Chapter int
	Body    string
	Err     error
}

// ChapterFunc renders a member's chapter as terminal text wrapped at width.
type ChapterFunc func(ctx context.Context, member string, chapter, width int) (string, error)

// LoadDataCmd loads the store and reports its snapshot.
func LoadDataCmd(ctx context.Context, store *appdata.Store) tea.Cmd {
	return func() tea.Msg {
		err := store.Load(ctx)
		return DataLoadedMsg{Data: store.Snapshot(), Err: err}
	}
}

// LoadChapterCmd renders one chapter off the UI loop.
func LoadChapterCmd(ctx context.Context, fn ChapterFunc, member string, chapter, width int) tea.Cmd {
	return func() tea.Msg {
		body, err := fn(ctx, member, chapter, width)
		return ChapterLoadedMsg{Member: member, Chapter: chapter, Body: body, Err: err}
	}
}
