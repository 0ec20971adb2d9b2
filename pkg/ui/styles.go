package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
)

type styles struct {
	title     lipgloss.Style
	muted     lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	warning   lipgloss.Style
	highlight lipgloss.Style
	enum      lipgloss.Style
}

// newStyles binds the palette to r so color output follows the writer.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(colorPrimary),
		muted:     r.NewStyle().Foreground(colorMuted),
		success:   r.NewStyle().Foreground(colorSuccess),
		failure:   r.NewStyle().Bold(true).Foreground(colorError),
		warning:   r.NewStyle().Foreground(colorWarning),
		highlight: r.NewStyle().Foreground(colorHighlight),
		enum:      r.NewStyle().Foreground(colorMuted).MarginRight(1),
	}
}
