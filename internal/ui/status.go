package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Status writes one human-readable line per lifecycle stage or event outcome.
type Status struct {
	w       io.Writer
	plain   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
}

// NewStatus styles lines for w; plain writers get plain text.
func NewStatus(w io.Writer) *Status {
	r := lipgloss.NewRenderer(w)
	return &Status{
		w:       w,
		plain:   r.NewStyle(),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Step announces a lifecycle stage.
func (s *Status) Step(icon, format string, args ...any) {
	s.line(s.plain, icon, format, args...)
}

func (s *Status) Success(format string, args ...any) {
	s.line(s.success, "✅", format, args...)
}

func (s *Status) Warn(format string, args ...any) {
	s.line(s.warn, "⚠️ ", format, args...)
}

func (s *Status) Fail(format string, args ...any) {
	s.line(s.fail, "❌", format, args...)
}

func (s *Status) line(style lipgloss.Style, icon, format string, args ...any) {
	fmt.Fprintf(s.w, "%s %s\n", icon, style.Render(fmt.Sprintf(format, args...)))
}
