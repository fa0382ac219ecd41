// ABOUTME: Terminal rendering for the CLI: glamour for MDX bodies and lipgloss styles for headings.
package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Chapter part heading
	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	// Member listing
	MemberIconStyle = lipgloss.NewStyle().Width(4)
	MemberNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	MutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	WarningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Terminal renders MDX documents as styled terminal text.
type Terminal struct {
	r *glamour.TermRenderer
}

// NewTerminal returns a Terminal wrapping at width columns. An empty style
// picks light or dark from the terminal background; "notty" disables colors.
func NewTerminal(width int, style string) (*Terminal, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}
	return &Terminal{r: r}, nil
}

// Render renders the body of an MDX document.
func (t *Terminal) Render(src string) (string, error) {
	out, err := t.r.Render(ParseDocument(src).Body)
	if err != nil {
		return "", fmt.Errorf("render terminal markdown: %w", err)
	}
	return out, nil
}

// Heading formats a part heading with its icon.
func Heading(icon, title string) string {
	if icon == "" {
		return HeadingStyle.Render(title)
	}
	return HeadingStyle.Render(icon + "  " + title)
}
