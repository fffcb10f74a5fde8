package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/RevCBH/hookrunner/internal/jobctx"
)

// Styles contains the lipgloss styles for terminal summaries
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Alias     lipgloss.Style
	Supported lipgloss.Style
	Missing   lipgloss.Style
	Muted     lipgloss.Style
}

// DefaultStyles returns the default summary styles
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Alias:     lipgloss.NewStyle().Bold(true),
		Supported: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Missing:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Icons used in summaries
const (
	IconSupported   = "✓"
	IconUnsupported = "✗"
)

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RenderJobContext renders the job context as a styled summary
func RenderJobContext(s Styles, jc *jobctx.Context) string {
	var b strings.Builder
	container := jc.Container()

	b.WriteString(s.Title.Render("Job container"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", s.Label.Render("id:     "), s.Value.Render(container[jobctx.KeyID]))
	fmt.Fprintf(&b, "  %s %s\n", s.Label.Render("network:"), s.Value.Render(container[jobctx.KeyNetwork]))

	services := jc.Services()
	if len(services) == 0 {
		return b.String()
	}

	aliases := make([]string, 0, len(services))
	for alias := range services {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	b.WriteString(s.Title.Render("Services"))
	b.WriteString("\n")
	for _, alias := range aliases {
		svc := services[alias]
		fmt.Fprintf(&b, "  %s %s %s\n",
			s.Alias.Render(alias),
			s.Value.Render(svc.ID),
			s.Muted.Render("("+svc.Network+")"))
	}
	return b.String()
}
