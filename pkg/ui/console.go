package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwantia/modkeep/pkg/inventory"
	"github.com/muesli/termenv"
)

// Console writes styled report lines. Colors are dropped automatically when
// the writer is not a terminal.
type Console struct {
	out    io.Writer
	styles styles
}

func NewConsole(w io.Writer, noColor bool) *Console {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Console{
		out:    w,
		styles: newStyles(r),
	}
}

func (c *Console) line(style lipgloss.Style, marker, format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", style.Render(marker), fmt.Sprintf(format, args...))
}

func (c *Console) Notice(format string, args ...any) {
	c.line(c.styles.muted, "•", format, args...)
}

func (c *Console) Success(format string, args ...any) {
	c.line(c.styles.success, "✓", format, args...)
}

func (c *Console) Warning(format string, args ...any) {
	c.line(c.styles.warning, "!", format, args...)
}

func (c *Console) Failure(format string, args ...any) {
	c.line(c.styles.failure, "✗", format, args...)
}

func (c *Console) Collision(col inventory.Collision) {
	c.Warning("Hash collision %s", c.styles.highlight.Render(col.Hash))
	fmt.Fprintf(c.out, "    %s %s\n", c.styles.muted.Render(col.Mod+":"), col.File)
	fmt.Fprintf(c.out, "    %s %s\n", c.styles.muted.Render(col.ExistingMod+":"), col.ExistingFile)
}

func (c *Console) Title(format string, args ...any) {
	fmt.Fprintln(c.out, c.styles.title.Render(fmt.Sprintf(format, args...)))
}

// Summary prints the totals of a reconciliation pass.
func (c *Console) Summary(s inventory.Summary) {
	c.Title("Scan summary")
	fmt.Fprintf(c.out, "  directories: %d new, %d missing, %d recorded\n", s.NewDirs, s.MissingDirs, s.ExistingDirs)
	fmt.Fprintf(c.out, "  added %d, removed %d, updated %d, skipped %d\n", s.Added, s.Removed, s.Updated, s.Skipped)
	if s.Validated+s.Failed > 0 {
		fmt.Fprintf(c.out, "  verified %d, failed %d\n", s.Validated, s.Failed)
	}
	if s.Collisions > 0 {
		c.Warning("%d hash collision(s) recorded", s.Collisions)
	}
}
